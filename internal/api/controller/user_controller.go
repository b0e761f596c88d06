package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tictacroom/internal/api/models"
	"tictacroom/internal/api/response"
	"tictacroom/internal/api/service"
)

// UserController handles registration, login and user listing.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.Register(c.Request.Context(), &req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		response.ErrorResponse(c, status, err.Error())
		return
	}

	response.SuccessResponse(c, gin.H{"message": "User created successfully"})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		response.ErrorResponse(c, status, err.Error())
		return
	}

	response.SuccessResponse(c, models.LoginResponse{Token: token, Username: req.Username})
}

// GuestLogin issues a token for a generated guest username, no
// registration required.
func (uc *UserController) GuestLogin(c *gin.Context) {
	username, token, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, models.LoginResponse{Token: token, Username: username})
}

// Users returns every registered username, used by clients to build
// room allow-lists.
func (uc *UserController) Users(c *gin.Context) {
	usernames, err := uc.userService.ListUsernames(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, gin.H{"users": usernames})
}
