package domain

type ProfileID string

// Profile is the locally stored login profile. Secrets never live here;
// PasswordRef and TOTPSecretRef point at secret-store entries, typically in
// "cocos://<profile>/<name>" form.
type Profile struct {
	ID            ProfileID
	Name          string
	Email         string
	APIKey        string
	PasswordRef   string
	TOTPSecretRef string
	LastAccountID string
}
