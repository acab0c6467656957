package frame

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestEncodeLayout(t *testing.T) {
	got := string(Encode("sess-ABCDEF", []byte("<edipc/>")))
	want := "sess-ABCDEF;<edipc/>;*EDEND*"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "plain", key: "sess-ABCDEF"},
		{name: "uuid-like", key: "sess-0f8fad5bd9cb469fa16570867728950e"},
		{name: "empty", key: "", wantErr: true},
		{name: "delimiter", key: "sess;x", wantErr: true},
		{name: "sentinel", key: "sess*EDEND*", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("err = %v, want ErrInvalidKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		key     string
		want    string
		wantErr error
	}{
		{
			name: "valid frame",
			buf:  "k1;<edipc/>;*EDEND*",
			key:  "k1",
			want: "<edipc/>",
		},
		{
			name: "no delimiter before sentinel",
			buf:  "k1;<edipc/>*EDEND*",
			key:  "k1",
			want: "<edipc/>",
		},
		{
			name: "empty payload",
			buf:  "k1;*EDEND*",
			key:  "k1",
			want: "",
		},
		{
			name:    "wrong key",
			buf:     "k2;<edipc/>;*EDEND*",
			key:     "k1",
			wantErr: ErrAuthFailure,
		},
		{
			name:    "key is a prefix of the presented token",
			buf:     "k12;<edipc/>;*EDEND*",
			key:     "k1",
			wantErr: ErrAuthFailure,
		},
		{
			name:    "missing delimiter after key",
			buf:     "k1<edipc/>;*EDEND*",
			key:     "k1",
			wantErr: ErrAuthFailure,
		},
		{
			name:    "auth checked before termination",
			buf:     "k2;<edipc/>",
			key:     "k1",
			wantErr: ErrAuthFailure,
		},
		{
			name:    "missing sentinel",
			buf:     "k1;<edipc/>;",
			key:     "k1",
			wantErr: ErrUnterminated,
		},
		{
			name:    "sentinel overlapping the prefix",
			buf:     "k1;EDEND*",
			key:     "k1",
			wantErr: ErrUnterminated,
		},
		{
			name:    "empty buffer",
			buf:     "",
			key:     "k1",
			wantErr: ErrAuthFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.buf), tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.IntN(256))
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	keys := []string{"k", "sess-ABCDEF", "sess-0f8fad5bd9cb469fa16570867728950e"}

	for i := range 500 {
		key := keys[i%len(keys)]
		payload := randomBytes(r, r.IntN(256))
		if i%17 == 0 {
			payload = append(payload, Delimiter)
		}

		got, err := Decode(Encode(key, payload), key)
		if err != nil {
			t.Fatalf("case %d: Decode: %v", i, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("case %d: round trip = %q, want %q", i, got, payload)
		}
	}
}

func TestDecodeStripsOneDelimiter(t *testing.T) {
	for _, payload := range []string{"a;", "a;;", ";"} {
		got, err := Decode(Encode("sess-ABCDEF", []byte(payload)), "sess-ABCDEF")
		if err != nil {
			t.Fatalf("Decode(%q): %v", payload, err)
		}
		if string(got) != payload {
			t.Fatalf("Decode = %q, want %q", got, payload)
		}
	}
}

func TestDecodeWrongKeyAlwaysFails(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := range 100 {
		payload := randomBytes(r, r.IntN(64))
		_, err := Decode(Encode("sess-ABCDEF", payload), "sess-WRONG")
		if !errors.Is(err, ErrAuthFailure) {
			t.Fatalf("case %d: err = %v, want ErrAuthFailure", i, err)
		}
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	buf := Encode("sess-ABCDEF", []byte("<edipc/>"))
	_, err := Decode(buf[:len(buf)-1], "sess-ABCDEF")
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("err = %v, want ErrUnterminated", err)
	}
}

func TestRejects(t *testing.T) {
	tests := []struct {
		buf  string
		want bool
	}{
		{buf: "", want: false},
		{buf: "sess", want: false},
		{buf: "sess-A", want: false},
		{buf: "sess-A;", want: false},
		{buf: "sess-A;<edipc", want: false},
		{buf: "sess-B", want: false},
		{buf: "sess-B;", want: true},
		{buf: "nope-x;...", want: true},
	}

	for _, tt := range tests {
		if got := Rejects([]byte(tt.buf), "sess-A"); got != tt.want {
			t.Errorf("Rejects(%q) = %v, want %v", tt.buf, got, tt.want)
		}
	}
}
