package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/v1/users":                 "/v1/users",
		"/v1/users/abc":             "/v1/users/:id",
		"/v1/users/abc/extra":       "/v1/users/abc/extra",
		"/v1/sequence/next":         "/v1/sequence/next",
		"/v1/orders/number":         "/v1/orders/number",
		"/v1/orders/number?scope=x": "/v1/orders/number",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
