package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// UserHandler serves the authenticated user's own profile operations.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	FirstName      *string           `json:"first_name"`
	LastName       *string           `json:"last_name"`
	Phone          *string           `json:"phone"`
	Address        *string           `json:"address"`
	City           *string           `json:"city"`
	Region         *string           `json:"region"`
	Filiation      *filiationRequest `json:"filiation"`
	ProfilePicture *string           `json:"profile_picture"`
}

// UpdateProfile patches the caller's own profile fields.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.UserPatch{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Region:         req.Region,
		ProfilePicture: req.ProfilePicture,
	}
	if req.Filiation != nil {
		patch.Filiation = &domain.Filiation{
			FatherName:  req.Filiation.FatherName,
			MotherName:  req.Filiation.MotherName,
			BirthPlace:  req.Filiation.BirthPlace,
			BirthDate:   req.Filiation.BirthDate,
			Nationality: req.Filiation.Nationality,
		}
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor.ID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadProfilePicture attaches an avatar image to the caller's profile.
//
// @Summary      Upload profile picture
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /users/me/profile-picture [post]
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	up, err := readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.userService.SetProfilePicture(c.Request().Context(), actor.ID, up)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"profile_picture": url})
}

type identityDocumentForm struct {
	Type       string `form:"type" validate:"required"`
	Number     string `form:"number" validate:"required"`
	IssueDate  string `form:"issue_date"`
	ExpiryDate string `form:"expiry_date"`
}

// UploadIdentityDocument stores an identity document file and attaches the
// identity record to the caller's profile.
//
// @Summary      Upload identity document
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type    formData  string  true  "Document type (e.g. CNI, passeport)"
// @Param        number  formData  string  true  "Document number"
// @Param        file    formData  file    true  "Document file"
// @Success      200     {object}  domain.IdentityDocument
// @Failure      400     {object}  map[string]string
// @Router       /users/me/identity-document [post]
func (h *UserHandler) UploadIdentityDocument(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var form identityDocumentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	up, err := readUpload(c)
	if err != nil {
		return err
	}

	doc, err := h.userService.SetIdentityDocument(c.Request().Context(), actor.ID, domain.IdentityDocument{
		Type:       form.Type,
		Number:     form.Number,
		IssueDate:  form.IssueDate,
		ExpiryDate: form.ExpiryDate,
	}, up)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// readUpload extracts the "file" part of a multipart request into memory.
func readUpload(c echo.Context) (ports.DocumentUpload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return ports.DocumentUpload{}, echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	f, err := fh.Open()
	if err != nil {
		return ports.DocumentUpload{}, echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return ports.DocumentUpload{}, echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	return ports.DocumentUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
