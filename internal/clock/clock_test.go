package clock

import "testing"

func TestSessionToken(t *testing.T) {
	cases := []struct {
		name      string
		password  string
		timestamp string
		want      string
	}{
		{
			name:      "plain password is hashed first",
			password:  "secret",
			timestamp: "1700000000",
			want:      MD5Hex([]byte(MD5Hex([]byte("secret")) + "1700000000")),
		},
		{
			name:      "pre-hashed password skips the inner hash",
			password:  MD5Hex([]byte("secret")),
			timestamp: "1700000000",
			want:      MD5Hex([]byte(MD5Hex([]byte("secret")) + "1700000000")),
		},
		{
			name:      "uppercase-looking 32 char value is not treated as pre-hashed",
			password:  "ABCDEFABCDEFABCDEFABCDEFABCDEF12",
			timestamp: "1",
			want:      MD5Hex([]byte(MD5Hex([]byte("ABCDEFABCDEFABCDEFABCDEFABCDEF12")) + "1")),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionToken(tc.password, tc.timestamp); got != tc.want {
				t.Errorf("SessionToken(%q, %q) = %q, want %q", tc.password, tc.timestamp, got, tc.want)
			}
		})
	}
}

func TestMD5Hex(t *testing.T) {
	if got := MD5Hex([]byte("")); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("MD5Hex(\"\") = %q, want d41d8cd98f00b204e9800998ecf8427e", got)
	}
}
