package check

// PanicIfErr panics with err if it is not nil.
func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}
