package validation

import "farmtoclick/internal/models"

// UserRegistration checks a registration payload.
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Check(input.Email != "", "email", "email is required")
	v.Check(ValidEmail(input.Email), "email", "invalid email address")
	v.Check(input.FirstName != "", "first_name", "first name is required")
	v.Check(len(input.Password) >= 8, "password", "password must be at least 8 characters")
	v.Check(HasSpecialChar(input.Password), "password", "password must contain a special character")
	v.Check(ValidPhone(input.Phone), "phone", "invalid phone number")
}
