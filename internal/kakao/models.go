package kakao

import "strconv"

// UserInfo 는 카카오 사용자 정보 응답이다. (GET /v2/user/me)
type UserInfo struct {
	ID           int64        `json:"id"`
	ConnectedAt  string       `json:"connected_at,omitempty"`
	KakaoAccount KakaoAccount `json:"kakao_account"`
}

// KakaoAccount 는 카카오 계정 정보다.
type KakaoAccount struct {
	Profile             Profile `json:"profile"`
	Email               string  `json:"email,omitempty"`
	IsEmailValid        bool    `json:"is_email_valid"`
	IsEmailVerified     bool    `json:"is_email_verified"`
	HasEmail            bool    `json:"has_email"`
	EmailNeedsAgreement bool    `json:"email_needs_agreement"`
}

// Profile 는 카카오 프로필 정보다.
type Profile struct {
	Nickname          string `json:"nickname"`
	ProfileImageURL   string `json:"profile_image_url"`
	ThumbnailImageURL string `json:"thumbnail_image_url"`
	IsDefaultImage    bool   `json:"is_default_image"`
}

// UID 는 Firebase uid로 쓰는 카카오 숫자 id의 문자열 형태다.
func (u *UserInfo) UID() string {
	return strconv.FormatInt(u.ID, 10)
}

// EmailVerified 는 이메일 검증 여부를 반환한다.
func (u *UserInfo) EmailVerified() bool {
	return u.KakaoAccount.IsEmailValid
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
}
