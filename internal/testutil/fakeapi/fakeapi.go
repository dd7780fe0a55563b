// Package fakeapi runs an in-process stand-in for the homeserv backend.
// It issues real HS256 tokens and enforces bearer auth and roles the same
// way the production API does, so client-side policies can be exercised
// end to end.
package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bearerPrefix = "Bearer "

// User is an account known to the fake backend
type User struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	Active       bool
	passwordHash []byte
}

// Call records one request the fake backend received
type Call struct {
	Method        string
	Path          string
	Authorization string
	Status        int
}

// Server is a running fake backend
type Server struct {
	*httptest.Server

	secret []byte

	mu               sync.Mutex
	users            map[string]*User
	nextID           int64
	calls            []Call
	tokenGeneration  int
	lastRegistration map[string]any
	omitToken        bool
}

// New starts a fake backend and stops it when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret: []byte("fakeapi-secret"),
		users:  make(map[string]*User),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the base URL clients should be configured with
func (s *Server) APIURL() string {
	return s.URL + "/api/"
}

// AddUser registers an account directly
func (s *Server) AddUser(email, password, role, name string) *User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u := &User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		Role:         role,
		Active:       true,
		passwordHash: hash,
	}
	s.users[email] = u
	return u
}

// RevokeTokens invalidates every token issued so far
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenGeneration++
}

// OmitTokenOnLogin makes successful logins answer without an access token
func (s *Server) OmitTokenOnLogin(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = omit
}

// Calls returns the requests received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// LastRegistration returns the body of the most recent register call
func (s *Server) LastRegistration() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRegistration
}

type tokenClaims struct {
	Role       string `json:"role"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for u
func (s *Server) IssueToken(u *User) string {
	s.mu.Lock()
	gen := s.tokenGeneration
	s.mu.Unlock()

	claims := tokenClaims{
		Role:       u.Role,
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(cors.Default())
	r.Use(s.recordCalls)

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.GET("/services", s.listServices)
	api.GET("/service-types", s.listServiceTypes)

	authed := api.Group("", s.requireToken)
	authed.GET("/service-requests", s.listServiceRequests)
	authed.GET("/service-requests/stats", s.stats)
	authed.PUT("/auth/password", s.ok)

	authed.GET("/customer/profile", s.requireRole("customer"), s.profile)
	authed.GET("/customer/dashboard/stats", s.requireRole("customer"), s.stats)
	authed.GET("/professional/profile", s.requireRole("professional"), s.profile)
	authed.GET("/professional/dashboard/stats", s.requireRole("professional"), s.stats)
	authed.GET("/admin/users", s.requireRole("admin"), s.listUsers)
	authed.GET("/admin/dashboard/stats", s.requireRole("admin"), s.stats)
	authed.POST("/admin/users/:id/block", s.requireRole("admin"), s.ok)

	return r
}

func (s *Server) recordCalls(c *gin.Context) {
	c.Next()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		Status:        c.Writer.Status(),
	})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	u := s.users[req.Email]
	omit := s.omitToken
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if !u.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User is deactivated"})
		return
	}

	resp := gin.H{
		"refresh_token": "refresh-" + strconv.FormatInt(u.ID, 10),
		"user_id":       u.ID,
		"role":          u.Role,
	}
	if !omit {
		resp["access_token"] = s.IssueToken(u)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) register(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	role, _ := body["role"].(string)
	name, _ := body["name"].(string)

	s.mu.Lock()
	s.lastRegistration = body
	_, exists := s.users[email]
	s.mu.Unlock()

	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}

	u := s.AddUser(email, password, role, name)
	c.JSON(http.StatusCreated, gin.H{
		"message":      "User created successfully",
		"access_token": s.IssueToken(u),
		"user_id":      u.ID,
		"role":         u.Role,
	})
}

func (s *Server) requireToken(c *gin.Context) {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing_token", "error": err.Error()})
		return
	}

	var claims tokenClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid_token", "error": err.Error()})
		return
	}

	s.mu.Lock()
	gen := s.tokenGeneration
	s.mu.Unlock()
	if claims.Generation != gen {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "revoked_token", "error": "Token has been revoked"})
		return
	}

	c.Set("role", claims.Role)
	c.Set("user_id", claims.Subject)
	c.Next()
}

func (s *Server) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": strings.ToUpper(role[:1]) + role[1:] + " access required"})
			return
		}
		c.Next()
	}
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

func (s *Server) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"id": 1, "name": "Leak repair", "price": 500, "time_req": 60, "service_type": "plumbing", "has_professionals": true},
		{"id": 2, "name": "Deep clean", "price": 1200, "time_req": 180, "service_type": "cleaning", "has_professionals": false},
	})
}

func (s *Server) listServiceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, []string{"cleaning", "plumbing"})
}

func (s *Server) listServiceRequests(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"id": 10, "service_id": 1, "service_name": "Leak repair", "status": "requested", "role_param": c.Query("role")},
	})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]gin.H, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, gin.H{"id": u.ID, "email": u.Email, "role": u.Role, "active": u.Active})
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"total": 3, "completed": 1})
}

func (s *Server) ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
