// Development helper that mints an access token for an existing user.
// cmd/issue-token/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/middleware"
	"campus-governance-api/models"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	userID := flag.Int("user", 0, "user_id to issue the token for")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *userID <= 0 {
		log.Fatal("-user is required")
	}
	if err := config.Load(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if config.App.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	config.InitDB()

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", *userID).First(&user).Error; err != nil {
		log.Fatalf("User %d not found: %v", *userID, err)
	}

	now := time.Now()
	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.App.JWTSecret))
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}
