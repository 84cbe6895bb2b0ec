package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// WordPressClaims mirrors the claim layout minted by the WordPress JWT
// plugin: the user id sits nested under data.user.id as a string.
type WordPressClaims struct {
	Data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"data"`
	jwt.RegisteredClaims
}

// CustomerID parses the nested WordPress user id.
func (c *WordPressClaims) CustomerID() (int64, bool) {
	if c == nil || c.Data.User.ID == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(c.Data.User.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
