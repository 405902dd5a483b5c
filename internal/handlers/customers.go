package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/dimitrije/salesdesk-api/internal/services"
	"github.com/dimitrije/salesdesk-api/internal/state"
	"github.com/dimitrije/salesdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type CustomerHandler struct {
	userService UserServiceInterface
	store       *state.Store
}

func NewCustomerHandler(userService UserServiceInterface, store *state.Store) *CustomerHandler {
	return &CustomerHandler{userService: userService, store: store}
}

func (h *CustomerHandler) List(c *drift.Context) {
	opts := services.ListOptions{
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sort"),
		SortDesc: c.QueryParam("order") == "desc",
	}

	users, err := h.userService.ListCustomers(context.Background(), opts)
	if err != nil {
		log.Printf("failed to list customers: %v", err)
		c.InternalServerError("failed to list customers")
		return
	}

	c.JSON(200, dto.NewCustomerResponses(users))
}

func (h *CustomerHandler) Create(c *drift.Context) {
	var req dto.CreateCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}
	if req.Name == "" {
		c.BadRequest("customer_name is required")
		return
	}

	user, err := h.userService.CreateCustomer(context.Background(), services.CustomerInput{
		Email:    req.Email,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Location: req.Location,
		Job:      req.Job,
		Salary:   req.Salary,
	})
	if err != nil {
		log.Printf("failed to create customer: %v", err)
		c.InternalServerError("failed to create customer")
		return
	}

	h.broadcast(fmt.Sprintf("User %s has been added.", user.Name()))
	c.JSON(201, dto.NewCustomerResponse(user))
}

func (h *CustomerHandler) Update(c *drift.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.BadRequest("invalid customer id")
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.UpdateCustomer(context.Background(), id, services.CustomerPatch{
		Email:    req.Email,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Location: req.Location,
		Job:      req.Job,
		Salary:   req.Salary,
	})
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("customer not found")
		return
	}
	if err != nil {
		log.Printf("failed to update customer %d: %v", id, err)
		c.InternalServerError("failed to update customer")
		return
	}

	h.broadcast(fmt.Sprintf("User %s has been modified.", user.Name()))
	c.JSON(200, dto.NewCustomerResponse(user))
}

func (h *CustomerHandler) Delete(c *drift.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.BadRequest("invalid customer id")
		return
	}

	user, err := h.userService.DeleteCustomer(context.Background(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("customer not found")
		return
	}
	if err != nil {
		log.Printf("failed to delete customer %d: %v", id, err)
		c.InternalServerError("failed to delete customer")
		return
	}

	h.broadcast(fmt.Sprintf("User %s has been deleted.", user.Name()))
	c.JSON(200, dto.NewCustomerResponse(user))
}

// broadcast reloads the customer list into every live session and emits the
// confirmation toast. List reload failures only degrade the push; the
// mutation itself already succeeded.
func (h *CustomerHandler) broadcast(message string) {
	users, err := h.userService.ListCustomers(context.Background(), services.ListOptions{})
	if err != nil {
		log.Printf("failed to reload customers after mutation: %v", err)
	} else {
		h.store.ReloadCustomers(users)
	}
	h.store.Toast(message)
}
