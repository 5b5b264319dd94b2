package auth

import (
	"golang.org/x/oauth2"

	"github.com/specia/specia-server/internal/model"
)

// SocialProvider builds the authorize URL for one third-party identity
// provider (Kakao, Naver, Google).
//
// SCOPE OF THE OAUTH SUPPORT:
// These providers only produce the redirect to the provider's authorization
// page. The callback leg — exchanging the code for a token and a profile —
// is not implemented; the callback URLs exist so the provider registration
// has somewhere to point. A provider with no client ID configured is
// "unavailable" and its login route redirects back to the login page with
// an error parameter instead.
//
// x/oauth2 still does the useful work here: AuthCodeURL assembles the
// authorize URL with the right encoding for client_id, redirect_uri, scope
// and state.
type SocialProvider struct {
	name   model.SocialProvider
	config *oauth2.Config
}

// Provider endpoints. Kakao and Naver are not in the oauth2 package's
// bundled endpoint list, so all three are spelled out.
var (
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:  "https://kauth.kakao.com/oauth/authorize",
		TokenURL: "https://kauth.kakao.com/oauth/token",
	}
	naverEndpoint = oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}
	googleEndpoint = oauth2.Endpoint{
		AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	}
)

// NewKakaoProvider returns the Kakao login provider. clientID may be empty,
// in which case Available reports false.
func NewKakaoProvider(clientID, baseURL string) *SocialProvider {
	return newProvider(model.ProviderKakao, clientID, baseURL, kakaoEndpoint, nil)
}

// NewNaverProvider returns the Naver login provider.
func NewNaverProvider(clientID, baseURL string) *SocialProvider {
	return newProvider(model.ProviderNaver, clientID, baseURL, naverEndpoint, nil)
}

// NewGoogleProvider returns the Google login provider. Google requires the
// email/profile scopes to identify the account.
func NewGoogleProvider(clientID, baseURL string) *SocialProvider {
	return newProvider(model.ProviderGoogle, clientID, baseURL, googleEndpoint, []string{"email", "profile"})
}

func newProvider(name model.SocialProvider, clientID, baseURL string, endpoint oauth2.Endpoint, scopes []string) *SocialProvider {
	return &SocialProvider{
		name: name,
		config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: baseURL + "/api/auth/" + string(name) + "/callback",
			Scopes:      scopes,
			Endpoint:    endpoint,
		},
	}
}

// Name returns the provider tag ("kakao", "naver", "google").
func (p *SocialProvider) Name() model.SocialProvider {
	return p.name
}

// Available reports whether the provider has a client ID configured.
func (p *SocialProvider) Available() bool {
	return p.config.ClientID != ""
}

// AuthURL returns the provider's authorization URL for the given CSRF
// state value.
func (p *SocialProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}
