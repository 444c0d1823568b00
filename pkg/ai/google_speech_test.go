package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

func TestGoogleSpeechRecognize(t *testing.T) {
	audio := []byte("ID3-fake-mp3")

	t.Run("returns top alternative of each result in order", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("invalid payload: %v", err)
			}
			if body["audio"]["content"] != base64.StdEncoding.EncodeToString(audio) {
				t.Fatalf("audio not base64 encoded: %q", body["audio"]["content"])
			}
			if body["config"]["encoding"] != "MP3" || body["config"]["languageCode"] != "en-US" {
				t.Fatalf("unexpected config %v", body["config"])
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []map[string]interface{}{
					{"alternatives": []map[string]interface{}{{"transcript": "Let's meet"}, {"transcript": "Lets meat"}}},
					{"alternatives": []map[string]interface{}{{"transcript": "next Tuesday"}}},
				},
			})
		}))
		defer ts.Close()

		client, err := NewGoogleSpeechClient(context.Background(), ts.Client(), ts.URL+"/", "en-US")
		if err != nil {
			t.Fatalf("NewGoogleSpeechClient() error = %v", err)
		}

		got, err := client.Recognize(context.Background(), audio, entities.AudioEncodingMP3)
		if err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}
		want := []string{"Let's meet", "next Tuesday"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Recognize() = %v, want %v", got, want)
		}
	})

	t.Run("no results means no segments", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client, err := NewGoogleSpeechClient(context.Background(), ts.Client(), ts.URL+"/", "")
		if err != nil {
			t.Fatalf("NewGoogleSpeechClient() error = %v", err)
		}

		got, err := client.Recognize(context.Background(), audio, entities.AudioEncodingMP3)
		if err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no segments, got %v", got)
		}
	})

	t.Run("server error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		}))
		defer ts.Close()

		client, err := NewGoogleSpeechClient(context.Background(), ts.Client(), ts.URL+"/", "en-US")
		if err != nil {
			t.Fatalf("NewGoogleSpeechClient() error = %v", err)
		}

		if _, err := client.Recognize(context.Background(), audio, entities.AudioEncodingMP3); err == nil {
			t.Fatal("expected error from server")
		}
	})
}
