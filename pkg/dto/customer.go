package dto

import "github.com/dimitrije/salesdesk-api/internal/models"

type CustomerResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"customer_name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
	Job      string `json:"job"`
	Salary   int    `json:"salary"`
}

func NewCustomerResponse(user *models.User) CustomerResponse {
	return CustomerResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name(),
		Age:      user.AgeValue(),
		Gender:   user.GenderValue(),
		Location: user.LocationValue(),
		Job:      user.JobValue(),
		Salary:   user.SalaryValue(),
	}
}

func NewCustomerResponses(users []models.User) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(users))
	for i := range users {
		out = append(out, NewCustomerResponse(&users[i]))
	}
	return out
}

type CreateCustomerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"customer_name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
	Job      string `json:"job"`
	Salary   int    `json:"salary"`
}

type UpdateCustomerRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"customer_name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Location *string `json:"location,omitempty"`
	Job      *string `json:"job,omitempty"`
	Salary   *int    `json:"salary,omitempty"`
}
