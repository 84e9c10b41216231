package dto

type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=64"`
	Message string `json:"message" validate:"required,max=5000"`
}

type UpdateContactRequest struct {
	IsViewed *bool `json:"isViewed" validate:"required"`
}

type ContactListQuery struct {
	Viewed *bool `form:"viewed"`
}
