package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/seasonal-tarot/internal/domain/admin"
)

const operatorClaimsKey = "operator_claims"

func setOperator(c *gin.Context, claims admin.Claims) {
	c.Set(operatorClaimsKey, claims)
}

func getOperator(c *gin.Context) (admin.Claims, bool) {
	value, ok := c.Get(operatorClaimsKey)
	if !ok {
		return admin.Claims{}, false
	}
	claims, ok := value.(admin.Claims)
	return claims, ok
}

// operatorName returns the authenticated operator, or "anonymous" when auth is off.
func operatorName(c *gin.Context) string {
	if claims, ok := getOperator(c); ok {
		return claims.Username
	}
	return "anonymous"
}
