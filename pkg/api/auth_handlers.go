package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"papertrade/pkg/auth"
	"papertrade/pkg/middleware"
	"papertrade/pkg/models"
)

// AuthHandlers contains authentication-related handlers
type AuthHandlers struct {
	db             *gorm.DB
	jwtService     *auth.JWTService
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthHandlers creates new authentication handlers
func NewAuthHandlers(db *gorm.DB, jwtService *auth.JWTService, authMiddleware *middleware.AuthMiddleware) *AuthHandlers {
	return &AuthHandlers{
		db:             db,
		jwtService:     jwtService,
		authMiddleware: authMiddleware,
	}
}

// Register handles user registration
func (ah *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := ValidateRegisterRequest(req); len(errs) > 0 {
		SendValidationErrors(c, errs)
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := ah.db.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Create user with the starting cash balance
	user := models.User{
		Username: req.Username,
		Cash:     models.StartingCash,
	}

	if err := ah.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Store password hash
	userPassword := models.UserPassword{
		UserID:       user.ID,
		PasswordHash: string(hashedPassword),
	}

	if err := ah.db.Create(&userPassword).Error; err != nil {
		// If password storage fails, delete the user to maintain consistency
		ah.db.Delete(&user)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store password"})
		return
	}

	ah.authMiddleware.LogLogin(req.Username, c.ClientIP(), c.Request.UserAgent(), true, "REGISTRATION")

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Login handles user login
func (ah *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find user
	var user models.User
	if err := ah.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		ah.authMiddleware.LogLogin(req.Username, c.ClientIP(), c.Request.UserAgent(), false, "USER_NOT_FOUND")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Get user password
	var userPassword models.UserPassword
	if err := ah.db.Where("user_id = ?", user.ID).First(&userPassword).Error; err != nil {
		ah.authMiddleware.LogLogin(req.Username, c.ClientIP(), c.Request.UserAgent(), false, "PASSWORD_NOT_FOUND")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(userPassword.PasswordHash), []byte(req.Password)); err != nil {
		ah.authMiddleware.LogLogin(req.Username, c.ClientIP(), c.Request.UserAgent(), false, "INVALID_PASSWORD")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Generate access token
	token, expiresAt, err := ah.jwtService.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ah.authMiddleware.LogLogin(req.Username, c.ClientIP(), c.Request.UserAgent(), true, "SUCCESS")

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"cash":     user.Cash,
		},
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetProfile handles getting user profile
func (ah *AuthHandlers) GetProfile(c *gin.Context) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"cash":       user.Cash,
			"created_at": user.CreatedAt,
		},
	})
}
