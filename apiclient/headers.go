package apiclient

// BearerHeaders returns the auth headers shared by the identity-backed APIs.
// An empty apiKey omits x-api-key.
func BearerHeaders(token, apiKey string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + token}
	if apiKey != "" {
		h["x-api-key"] = apiKey
	}
	return h
}
