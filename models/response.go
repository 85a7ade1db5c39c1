package models

// ScanResult is returned on a successful check-in or check-out. AdminNote is
// a second message block the chat transport forwards to the admin chats.
type ScanResult struct {
	Message   string `json:"message"`
	Action    string `json:"action"`
	Worker    string `json:"worker"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	AdminNote string `json:"admin_note,omitempty"`
}

type QRCodeResponse struct {
	Message     string `json:"message"`
	Action      string `json:"action"`
	Token       string `json:"token"`
	QRCodeImage string `json:"qr_code_image"`
}

type LoginSuccessResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
