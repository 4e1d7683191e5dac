package facebook

import "errors"

// ErrVerification is returned when the webhook verification handshake fails.
// The HTTP boundary maps it to 403.
var ErrVerification = errors.New("facebook: webhook verification failed")

// Verify validates the webhook verification request Facebook sends when a
// page subscription is created. The platform issues a GET with hub.mode,
// hub.verify_token and hub.challenge query parameters; on success the
// challenge must be echoed back verbatim as the response body.
func Verify(params map[string]string, verifyToken string) (string, error) {
	mode := params["hub.mode"]
	token := params["hub.verify_token"]
	challenge := params["hub.challenge"]

	if mode == "subscribe" && token == verifyToken && challenge != "" {
		return challenge, nil
	}
	return "", ErrVerification
}
