package post

type CreateReq struct {
	ImageURL    string `json:"imageUrl" validate:"required"`
	Description string `json:"description" validate:"required"`
}
