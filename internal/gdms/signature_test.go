// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import "testing"

func TestSign_KnownVector(t *testing.T) {
	t.Parallel()

	checkStringEqual(t, "body hash",
		sha256Hex([]byte(`{"a":1}`)),
		"015abd7f5cc57a2dd94b7590f04ad8084273905ee33ec5cebeae62276a97f862")

	got := Sign([]byte(`{"a":1}`), "T", "P", "S", "1700000000000")
	checkStringEqual(t, "signature", got, "e765a99affa4f268330e6da4908d53b53659a3ac33a12ec1f69bc849f59b432e")
}

func TestSign_EmptyBody(t *testing.T) {
	t.Parallel()

	got := Sign(nil, "tok", "app", "sec", "1")
	checkStringEqual(t, "signature", got, "2cae667cfe161f46a5eb521acd1b52f119fd1e130447401db0a8b7b08a4020a9")
}

func TestSign_DependsOnEveryInput(t *testing.T) {
	t.Parallel()

	base := Sign([]byte(`{}`), "tok", "app", "sec", "1")
	variants := map[string]string{
		"body":      Sign([]byte(`{ }`), "tok", "app", "sec", "1"),
		"token":     Sign([]byte(`{}`), "tok2", "app", "sec", "1"),
		"appID":     Sign([]byte(`{}`), "tok", "app2", "sec", "1"),
		"secret":    Sign([]byte(`{}`), "tok", "app", "sec2", "1"),
		"timestamp": Sign([]byte(`{}`), "tok", "app", "sec", "2"),
	}
	for name, sig := range variants {
		if sig == base {
			t.Errorf("changing %s did not change the signature", name)
		}
	}
}

func TestSignedURL_ParameterOrder(t *testing.T) {
	t.Parallel()

	got := signedURL("https://gdms.example", "/oapi/v1.0.0/ap/list", "a b", "app", "17", "sig")
	want := "https://gdms.example/oapi/v1.0.0/ap/list?access_token=a+b&appID=app&timestamp=17&signature=sig"
	checkStringEqual(t, "url", got, want)
}
