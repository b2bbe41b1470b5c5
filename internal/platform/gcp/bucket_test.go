package gcp

import "testing"

func TestPublicURL(t *testing.T) {
	key := "pins/owner/abc.webp"
	cases := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{
			name: "gcs default",
			cfg:  StorageConfig{Mode: StorageModeGCS, Bucket: "pin-bucket"},
			want: "https://storage.googleapis.com/pin-bucket/pins/owner/abc.webp",
		},
		{
			name: "cdn wins",
			cfg:  StorageConfig{Mode: StorageModeGCS, Bucket: "pin-bucket", CDNDomain: "cdn.example.com"},
			want: "https://cdn.example.com/pins/owner/abc.webp",
		},
		{
			name: "public base url",
			cfg:  StorageConfig{Mode: StorageModeGCS, Bucket: "pin-bucket", PublicBaseURL: "https://assets.example.com"},
			want: "https://assets.example.com/pin-bucket/pins/owner/abc.webp",
		},
		{
			name: "emulator media url",
			cfg:  StorageConfig{Mode: StorageModeEmulator, Bucket: "pin-bucket", EmulatorHost: "http://fake-gcs:4443"},
			want: "http://fake-gcs:4443/storage/v1/b/pin-bucket/o/pins%2Fowner%2Fabc.webp?alt=media",
		},
		{
			name: "emulator with browser-facing base",
			cfg:  StorageConfig{Mode: StorageModeEmulator, Bucket: "pin-bucket", EmulatorHost: "http://fake-gcs:4443", PublicBaseURL: "http://localhost:4443"},
			want: "http://localhost:4443/storage/v1/b/pin-bucket/o/pins%2Fowner%2Fabc.webp?alt=media",
		},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg, "/"+key); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("pins/a/b.WEBP"); got != "image/webp" {
		t.Fatalf("webp: got=%q", got)
	}
	if got := ContentTypeForKey("pins/a/b"); got != "application/octet-stream" {
		t.Fatalf("unknown: got=%q", got)
	}
}
