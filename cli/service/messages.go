package service

const (
	NotEnoughBalance = "NOT ENOUGH BALANCE"
	AlreadyDeployed  = "CONTRACT ALREADY DEPLOYED"
	AccountFrozen    = "ACCOUNT FROZEN"
	AccountNonExist  = "ACCOUNT NON EXIST"
	Deploying        = "DEPLOYING..."
	Deployed         = "DEPLOYED"
	NotConfirmed     = "DEPLOY IS NOT CONFIRMED"
	Sending          = "SENDING..."
	Sent             = "SENT"

	InvalidArgumentsCount = "INVALID ARGUMENTS COUNT"
	AccountIsNotActive    = "ACCOUNT IS NOT ACTIVE"
	Arguments             = "ARGUMENTS"
	Calling               = "CALL..."
	Done                  = "DONE"
)
