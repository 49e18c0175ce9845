package domain

type FactorMethod string

const (
	FactorTOTP  FactorMethod = "totp"
	FactorSMS   FactorMethod = "sms"
	FactorEmail FactorMethod = "email"
)

// Delivered reports whether the server sends the code over an external
// channel. Delivered factors always require interactive entry.
func (m FactorMethod) Delivered() bool {
	return m == FactorSMS || m == FactorEmail
}

// SecondFactorChallenge is the transient server challenge issued between
// password acceptance and session-token grant. Destination is an opaque
// server hint (a masked phone number or email) shown to the user when the
// code has to be typed in.
type SecondFactorChallenge struct {
	FactorID    string
	ChallengeID string
	Method      FactorMethod
	Destination string
}
