package contract

const (
	withGiverFlag = "with-giver"
	paramsFlag    = "params"
)

var params = &contractParams{}

type contractParams struct {
	withGiver bool
	// constructor parameters as a JSON object
	params string
}
