package dto

type ContentRequest struct {
	ID int64 `validate:"gt=0"`
}
