package application

// Status tags the outcome of a use case.
type Status string

const (
	StatusOK            Status = "ok"
	StatusCreated       Status = "created"
	StatusNotFound      Status = "not_found"
	StatusBadRequest    Status = "bad_request"
	StatusInternalError Status = "internal_error"
)

// Result is the tagged outcome every use case returns instead of an error.
// Data is the zero value unless the outcome is a success.
type Result[T any] struct {
	Status  Status
	Message string
	Data    T
}

// Success reports whether the outcome carries a payload.
func (r Result[T]) Success() bool {
	return r.Status == StatusOK || r.Status == StatusCreated
}

func ok[T any](data T, message string) Result[T] {
	return Result[T]{Status: StatusOK, Message: message, Data: data}
}

func created[T any](data T, message string) Result[T] {
	return Result[T]{Status: StatusCreated, Message: message, Data: data}
}

func notFound[T any](message string) Result[T] {
	return Result[T]{Status: StatusNotFound, Message: message}
}

func badRequest[T any](message string) Result[T] {
	return Result[T]{Status: StatusBadRequest, Message: message}
}

func internalError[T any](message string) Result[T] {
	return Result[T]{Status: StatusInternalError, Message: message}
}
