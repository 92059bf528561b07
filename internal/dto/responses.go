package dto

// Response is the uniform envelope every endpoint renders. Success mirrors
// whether the status code is below 400.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// NewResponse builds an envelope with Success derived from the status code.
func NewResponse(statusCode int, message string, data interface{}) Response {
	if data == nil {
		data = struct{}{}
	}
	return Response{
		StatusCode: statusCode,
		Success:    statusCode < 400,
		Message:    message,
		Data:       data,
	}
}

// LoginData is the payload of a successful login
type LoginData struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// TokenData is the payload of a successful refresh
type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
