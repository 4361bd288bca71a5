package controllers

import (
	"net/http"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

// UserController is the admin-only account management surface.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, pg, err := c.users.List(services.UserQuery{
		Role:     r.URL.Query().Get("role"),
		Keyword:  r.URL.Query().Get("keyword"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Paginated(w, users, pg)
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	user, err := c.users.Get(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, user)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,in=user,enterprise,admin"`
}

func (c *UserController) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var req setRoleRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, err := c.users.SetRole(id, req.Role)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, user)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (c *UserController) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var req setActiveRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, err := c.users.SetActive(id, *req.IsActive)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, user)
}

// ResetPassword issues a temporary password and returns it in the response
// body. It is shown exactly once.
func (c *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	temp, err := c.users.ResetPassword(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"temp_password": temp})
}

func (c *UserController) Count(w http.ResponseWriter, r *http.Request) {
	n, err := c.users.Count()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]int64{"count": n})
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.users.Delete(id); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "user deleted"})
}
