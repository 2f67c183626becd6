package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/auth"
	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/middleware"
	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles staff authentication requests
type AuthHandler struct {
	authService *auth.Service
	staff       db.StaffCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, staff db.StaffCollection) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		staff:       staff,
	}
}

// Login handles staff login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		respondError(w, r, err, "Invalid request")
		return
	}
	loginReq.Username = strings.TrimSpace(loginReq.Username)
	if loginReq.Username == "" || loginReq.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	member, err := h.staff.FindStaffByUsername(r.Context(), loginReq.Username)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			respondError(w, r, err, "Login failed")
			return
		}
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !member.IsActive {
		respondMessage(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}
	if !h.authService.CheckPassword(loginReq.Password, member.PasswordHash) {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	response, err := h.issueTokens(member)
	if err != nil {
		respondError(w, r, err, "Failed to generate token")
		return
	}

	if err := h.staff.UpdateLastLogin(r.Context(), member.ID.Hex()); err != nil {
		log.WithError(err).WithField("staffId", member.ID.Hex()).Warn("Failed to update last login")
	}
	log.WithField("username", member.Username).Info("Staff logged in")
	respond(w, http.StatusOK, "Login successful", response)
}

// Register creates a staff account. Admin accounts cannot self-register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq models.RegisterRequest
	if err := decodeJSON(r, &registerReq); err != nil {
		respondError(w, r, err, "Invalid request")
		return
	}
	registerReq.Username = strings.TrimSpace(registerReq.Username)
	registerReq.Email = strings.ToLower(strings.TrimSpace(registerReq.Email))
	if registerReq.Role == "" {
		registerReq.Role = models.RoleStaff
	}

	for _, err := range []error{
		h.authService.ValidateUsername(registerReq.Username),
		h.authService.ValidateEmail(registerReq.Email),
		h.authService.ValidatePassword(registerReq.Password),
	} {
		if err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if !models.IsValidRole(registerReq.Role) {
		respondMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if registerReq.Role == models.RoleAdmin {
		respondMessage(w, http.StatusForbidden, "Admin accounts cannot be self-registered")
		return
	}

	if _, err := h.staff.FindStaffByUsername(r.Context(), registerReq.Username); err == nil {
		respondMessage(w, http.StatusConflict, "Username already exists")
		return
	}
	if _, err := h.staff.FindStaffByEmail(r.Context(), registerReq.Email); err == nil {
		respondMessage(w, http.StatusConflict, "Email already exists")
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		respondError(w, r, err, "Failed to hash password")
		return
	}

	now := time.Now()
	member := models.Staff{
		ID:           primitive.NewObjectID(),
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Role:         registerReq.Role,
		FirstName:    strings.TrimSpace(registerReq.FirstName),
		LastName:     strings.TrimSpace(registerReq.LastName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.staff.InsertStaff(r.Context(), member); err != nil {
		respondError(w, r, err, "Failed to create staff account")
		return
	}

	response, err := h.issueTokens(&member)
	if err != nil {
		respondError(w, r, err, "Failed to generate token")
		return
	}
	log.WithField("username", member.Username).Info("Staff registered")
	respond(w, http.StatusCreated, "Staff account created", response)
}

func (h *AuthHandler) issueTokens(member *models.Staff) (models.LoginResponse, error) {
	token, err := h.authService.GenerateToken(member)
	if err != nil {
		return models.LoginResponse{}, err
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		return models.LoginResponse{}, err
	}
	return models.LoginResponse{Token: token, RefreshToken: refreshToken, Staff: *member}, nil
}

// GetProfile returns the current staff member's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	member, ok := h.currentStaff(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, "", member)
}

// UpdateProfile updates the current staff member's name and email
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var updateReq struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := decodeJSON(r, &updateReq); err != nil {
		respondError(w, r, err, "Invalid request")
		return
	}

	member, ok := h.currentStaff(w, r)
	if !ok {
		return
	}

	if v := strings.TrimSpace(updateReq.FirstName); v != "" {
		member.FirstName = v
	}
	if v := strings.TrimSpace(updateReq.LastName); v != "" {
		member.LastName = v
	}
	if email := strings.ToLower(strings.TrimSpace(updateReq.Email)); email != "" {
		if err := h.authService.ValidateEmail(email); err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		existing, err := h.staff.FindStaffByEmail(r.Context(), email)
		if err == nil && existing.ID != member.ID {
			respondMessage(w, http.StatusConflict, "Email already exists")
			return
		}
		member.Email = email
	}

	if err := h.staff.UpdateStaff(r.Context(), member.ID.Hex(), *member); err != nil {
		respondError(w, r, err, "Failed to update profile")
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", member)
}

// ChangePassword changes the current staff member's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var passwordReq struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &passwordReq); err != nil {
		respondError(w, r, err, "Invalid request")
		return
	}
	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		respondMessage(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if err := h.authService.ValidatePassword(passwordReq.NewPassword); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	member, ok := h.currentStaff(w, r)
	if !ok {
		return
	}
	if !h.authService.CheckPassword(passwordReq.CurrentPassword, member.PasswordHash) {
		respondMessage(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	newHash, err := h.authService.HashPassword(passwordReq.NewPassword)
	if err != nil {
		respondError(w, r, err, "Failed to hash password")
		return
	}
	member.PasswordHash = newHash
	if err := h.staff.UpdateStaff(r.Context(), member.ID.Hex(), *member); err != nil {
		respondError(w, r, err, "Failed to update password")
		return
	}
	respondMessage(w, http.StatusOK, "Password changed successfully")
}

// currentStaff loads the authenticated staff member, writing the error
// response itself when that fails.
func (h *AuthHandler) currentStaff(w http.ResponseWriter, r *http.Request) (*models.Staff, bool) {
	claims, ok := middleware.GetStaffFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Staff context not found")
		return nil, false
	}
	member, err := h.staff.FindStaffByID(r.Context(), claims.StaffID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondMessage(w, http.StatusNotFound, "Staff member not found")
			return nil, false
		}
		respondError(w, r, err, "Failed to load profile")
		return nil, false
	}
	return member, true
}
