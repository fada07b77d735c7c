package apperr

type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeConflict     Code = "CONFLICT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodePersistence  Code = "PERSISTENCE"
	CodeGateway      Code = "GATEWAY"
)
