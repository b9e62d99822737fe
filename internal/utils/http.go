package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealClientIP returns the caller address for request logs. Behind the
// hosting proxy the socket peer is the proxy, so X-Real-IP and then the first
// valid X-Forwarded-For entry are preferred over gin's ClientIP.
func GetRealClientIP(c *gin.Context) string {
	if ip := parseIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	return c.ClientIP()
}

// parseIP accepts "ip" or "ip:port" and returns the bare address, or "" when
// s is not an address
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
