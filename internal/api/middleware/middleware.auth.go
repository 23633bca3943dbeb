package middleware

import (
	"strings"

	"order_desk/internal/common"
	"order_desk/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// AdminClaims là claims của JWT token cho các route quản trị.
// Subject là email của admin, Role phải là "admin".
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware middleware xác thực JWT cho các route quản trị.
// Token được truyền qua header Authorization dưới dạng "Bearer <token>".
// Sau khi xác thực thành công, actor (email) được lưu vào Locals để handler ghi nhận audit.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Parse và validate token
		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, common.ErrTokenInvalid
			}
			return secret, nil
		})
		if err != nil {
			if strings.Contains(err.Error(), jwt.ErrTokenExpired.Error()) {
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token validation failed")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if !token.Valid {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra role quản trị
		if claims.Role != "admin" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"actor": claims.Subject,
				"role":  claims.Role,
			}).Warn("❌ [AUTH] Actor does not have admin role")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Không có quyền truy cập khu vực quản trị",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin actor vào context để handler và log sử dụng
		c.Locals("actor", claims.Subject)
		c.Locals("actor_role", claims.Role)
		return c.Next()
	}
}
