package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/config"
	"github.com/uniquestorebd/unique-store-api/middleware"
	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

// AuthController handles registration, login and push subscriptions.
type AuthController struct {
	db  *gorm.DB
	cfg *config.Config
	s3  services.S3Interface
}

func NewAuthController(db *gorm.DB, cfg *config.Config, s3 services.S3Interface) *AuthController {
	return &AuthController{db: db, cfg: cfg, s3: s3}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SubscriptionRequest mirrors the browser PushSubscription JSON shape.
type SubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// Register creates a new user account. The configured admin email is
// promoted to the ADMIN role on signup.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleUser,
	}
	if ac.cfg.AdminEmail != "" && req.Email == ac.cfg.AdminEmail {
		user.Role = models.RoleAdmin
	}

	if err := ac.db.Create(&user).Error; err != nil {
		if isDuplicateError(err) {
			errorJSON(c, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		log.Printf("Error creating user: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Login verifies credentials and sets the session token as an httpOnly cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		log.Printf("Error fetching user by email: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sign in")
		return
	}

	if !user.CheckPassword(req.Password) {
		errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(&user, ac.cfg.JWTSecret)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		errorJSON(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign in")
		return
	}

	c.SetCookie(middleware.TokenCookieName, token, int(middleware.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"token": token,
		},
	})
}

// Logout clears the session cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Signed out"},
	})
}

// SaveSubscription stores the caller's web push subscription. Saving the
// same endpoint twice updates the keys instead of duplicating the row.
func (ac *AuthController) SaveSubscription(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var sub models.PushSubscription
	err = ac.db.Where("endpoint = ?", req.Endpoint).First(&sub).Error
	switch {
	case err == nil:
		sub.UserID = claims.UserID
		sub.P256dh = req.Keys.P256dh
		sub.Auth = req.Keys.Auth
		err = ac.db.Save(&sub).Error
	case err == gorm.ErrRecordNotFound:
		sub = models.PushSubscription{
			UserID:   claims.UserID,
			Endpoint: req.Endpoint,
			P256dh:   req.Keys.P256dh,
			Auth:     req.Keys.Auth,
		}
		err = ac.db.Create(&sub).Error
	}
	if err != nil {
		log.Printf("Error saving push subscription: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save subscription")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sub,
	})
}

// UploadAuth issues a short-lived presigned upload URL for direct-to-storage
// image uploads from the admin dashboard.
func (ac *AuthController) UploadAuth(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		filename = "image.png"
	}

	ttl := time.Duration(ac.cfg.UploadURLTTLMinutes) * time.Minute
	url, key, err := ac.s3.PresignUpload(c.Request.Context(), filename, ttl)
	if err != nil {
		log.Printf("Error presigning upload: %v", err)
		errorJSON(c, http.StatusInternalServerError, "UPLOAD_AUTH_ERROR", "Failed to authorize upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"upload_url": url,
			"file_id":    key,
			"url":        ac.s3.ObjectURL(key),
			"expires_in": int(ttl.Seconds()),
		},
	})
}
