package models

// ContactMessage is the payload of the simple four-field contact form.
type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}
