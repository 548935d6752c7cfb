package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// UploadFile stores an uploaded file in Google Cloud Storage under
// "{context}/{filename}" and returns the object path plus a public URL.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		http.Error(w, "GCS_BUCKET is not configured", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	context := r.FormValue("context")
	if context == "" {
		context = "misc"
	}

	timestamp := time.Now().Format("20060102-150405")
	object := fmt.Sprintf("%s/%s-%s", context, timestamp, header.Filename)

	ctx := r.Context()
	client, err := storage.NewClient(ctx)
	if err != nil {
		http.Error(w, "failed to connect to storage: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer client.Close()

	wc := client.Bucket(bucket).Object(object).NewWriter(ctx)
	wc.ContentType = header.Header.Get("Content-Type")
	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := wc.Close(); err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"path":     object,
		"url":      url,
		"filename": header.Filename,
	})
}
