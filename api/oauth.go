package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The token endpoint gets an explicit timeout so a stalled exchange can't
// hang the callback forever
var oauthClient = &http.Client{Timeout: 10 * time.Second}

// OAuthRedirect bounces the browser to Google's consent screen. The state
// value is generated but not checked on the way back, matching the
// client-side flow this backend was built against
func (a *API) OAuthRedirect(c *gin.Context) {
	params := url.Values{}
	params.Set("client_id", a.Cfg.OAuthClientID)
	params.Set("redirect_uri", a.Cfg.APIURL+"/oauth/callback")
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", uuid.NewString())

	c.Redirect(http.StatusFound, a.Cfg.OAuthAuthURL+"?"+params.Encode())
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// OAuthCallback exchanges the authorization code for an identity token,
// provisions or matches a local account and hands the browser a session
// token in the URL fragment. Fragments never reach server logs, query
// parameters do
func (a *API) OAuthCallback(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=token_exchange_failed")
		return
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", a.Cfg.OAuthClientID)
	form.Set("client_secret", a.Cfg.OAuthClientSecret)
	form.Set("redirect_uri", a.Cfg.APIURL+"/oauth/callback")
	form.Set("grant_type", "authorization_code")

	resp, err := oauthClient.PostForm(a.Cfg.OAuthTokenURL, form)
	if err != nil {
		zap.L().Error("Network error during token exchange", zap.Error(err), zap.String("requestID", requestID))

		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=network_error")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("Token exchange rejected", zap.Int("status", resp.StatusCode), zap.String("requestID", requestID))

		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=token_exchange_failed")
		return
	}

	var tokenData tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil || tokenData.IDToken == "" {
		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=no_id_token")
		return
	}

	// The id_token's signature is NOT verified here, its claims are
	// trusted as delivered over the TLS channel to Google's endpoint
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenData.IDToken, claims); err != nil {
		zap.L().Error("Failed to decode id_token", zap.Error(err), zap.String("requestID", requestID))

		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=invalid_token")
		return
	}

	googleID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	if googleID == "" {
		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=invalid_token")
		return
	}

	user, err := a.findOrCreateGoogleUser(googleID, email, name)
	if err != nil {
		zap.L().Error("Failed to provision OAuth user", zap.Error(err), zap.String("requestID", requestID))

		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=token_exchange_failed")
		return
	}

	token, err := a.Tokens.Make(user.ID, user.Role)
	if err != nil {
		zap.L().Error("Failed to generate session token", zap.Error(err), zap.String("requestID", requestID))

		c.Redirect(http.StatusFound, a.Cfg.HostURL+"?error=token_exchange_failed")
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", token)
	fragment.Set("token_type", "bearer")

	c.Redirect(http.StatusFound, strings.TrimSuffix(a.Cfg.HostURL, "/")+"/#"+fragment.Encode())
}

func (a *API) findOrCreateGoogleUser(googleID, email, name string) (*model.User, error) {
	var user model.User

	err := a.DB.
		Where("google_id = ?", googleID).
		First(&user).
		Error
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  name,
		GoogleID:  &googleID,
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}

	if err := a.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
