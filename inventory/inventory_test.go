// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		Endpoint:  server.URL,
		AuthToken: "inventory-token",
	})
}

func TestFetchAssetsEnvelopeResolution(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "bare array",
			body: `["sg-101","by-7"]`,
			want: []string{"by-7", "sg-101"},
		},
		{
			name: "assets field",
			body: `{"assets":["sg-101"]}`,
			want: []string{"sg-101"},
		},
		{
			name: "items field",
			body: `{"items":["cr-3"]}`,
			want: []string{"cr-3"},
		},
		{
			name: "assets preferred over later fields",
			body: `{"records":["sg-999"],"assets":["sg-101"]}`,
			want: []string{"sg-101"},
		},
		{
			name: "non-array envelope field skipped",
			body: `{"assets":"nope","items":["sg-101"]}`,
			want: []string{"sg-101"},
		},
		{
			name: "no recognized field",
			body: `{"boats":["sg-101"]}`,
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, test.body)
			})
			assets := client.FetchAssets(context.Background())
			if len(assets) != len(test.want) {
				t.Fatalf("got %d assets, want %d: %+v", len(assets), len(test.want), assets)
			}
			for i, id := range test.want {
				if assets[i].ID != id {
					t.Errorf("assets[%d].ID = %q, want %q", i, assets[i].ID, id)
				}
			}
		})
	}
}

func TestFetchAssetsObjectEntries(t *testing.T) {
	body := `{"assets":[
		{"asset":"sg-101","primary":true,"secondary":true,"last_auto_plt_time":"2026-08-29T12:00:00Z"},
		{"name":"by-7","primary":true},
		{"display_name":"cr-3"},
		{"primary":true},
		{"asset":"dock-9"}
	]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	assets := client.FetchAssets(context.Background())
	if len(assets) != 3 {
		t.Fatalf("got %d assets, want 3 (nameless and non-fleet entries dropped): %+v", len(assets), assets)
	}

	if assets[0].ID != "by-7" || !assets[0].Primary || assets[0].Secondary {
		t.Errorf("assets[0] = %+v", assets[0])
	}
	if assets[1].ID != "cr-3" {
		t.Errorf("assets[1] = %+v", assets[1])
	}
	if assets[2].ID != "sg-101" || !assets[2].Secondary {
		t.Errorf("assets[2] = %+v", assets[2])
	}
	if assets[2].LastAuto != "2026-08-29T12:00:00Z" {
		t.Errorf("LastAuto = %q", assets[2].LastAuto)
	}
}

func TestFetchAssetsNameFieldOrder(t *testing.T) {
	// "asset" beats "name" beats "title".
	body := `{"assets":[{"title":"sg-title","name":"sg-name","asset":"sg-asset"}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	assets := client.FetchAssets(context.Background())
	if len(assets) != 1 || assets[0].ID != "sg-asset" {
		t.Fatalf("assets = %+v, want single sg-asset", assets)
	}
}

func TestFetchAssetsNaturalSort(t *testing.T) {
	body := `["sg-10","sg-2","SG-1","by-20","by-3"]`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	assets := client.FetchAssets(context.Background())
	want := []string{"by-3", "by-20", "SG-1", "sg-2", "sg-10"}
	if len(assets) != len(want) {
		t.Fatalf("got %d assets: %+v", len(assets), assets)
	}
	for i, id := range want {
		if assets[i].ID != id {
			t.Errorf("assets[%d].ID = %q, want %q", i, assets[i].ID, id)
		}
	}
}

func TestFetchAssetsSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	})

	client.FetchAssets(context.Background())
	if gotAuth != "Bearer inventory-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestFetchAssetsDegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		if assets := client.FetchAssets(context.Background()); len(assets) != 0 {
			t.Errorf("assets = %+v, want empty", assets)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{not json`)
		})
		if assets := client.FetchAssets(context.Background()); len(assets) != 0 {
			t.Errorf("assets = %+v, want empty", assets)
		}
	})

	t.Run("no endpoint configured", func(t *testing.T) {
		client := NewClient(ClientConfig{})
		if assets := client.FetchAssets(context.Background()); len(assets) != 0 {
			t.Errorf("assets = %+v, want empty", assets)
		}
	})
}

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"sg-2", "sg-10", -1},
		{"sg-10", "sg-2", 1},
		{"sg-2", "sg-2", 0},
		{"SG-2", "sg-2", 0},
		{"sg-002", "sg-2", 0},
		{"sg-1", "sg-1a", -1},
		{"by-1", "sg-1", -1},
	}
	for _, test := range tests {
		got := compareNatural(test.a, test.b)
		// Normalize to sign.
		if got < 0 {
			got = -1
		} else if got > 0 {
			got = 1
		}
		if got != test.want {
			t.Errorf("compareNatural(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
