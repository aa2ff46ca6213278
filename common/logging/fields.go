package logging

const (
	FieldComponent = "component"
	FieldNetwork   = "net"

	FieldDuration = "duration"
	FieldUrl      = "url"
	FieldReqId    = "reqId"

	FieldContract = "contract"
	FieldAddress  = "address"
	FieldFunction = "function"

	FieldMessageHash = "msgHash"
	FieldMessageTo   = "msgTo"

	FieldAccountType    = "accountType"
	FieldAccountBalance = "balance"
	FieldLastTxLT       = "lastTxLt"

	FieldCommand = "command"
	FieldFile    = "file"
)
