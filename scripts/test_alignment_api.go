package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // alignment runs can take minutes
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func extractId(body []byte, field string) string {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	id, _ := envelope.Data[field].(string)
	return id
}

func main() {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		color.Red("API_TOKEN is not set")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Alignment API Smoke Test\n")

	color.Yellow("\n1. Import Lecture")
	resp, body, err := sendRequest("POST", "/lecture/v1", token, map[string]interface{}{
		"title": "Smoke Test Lecture",
		"slides": []map[string]interface{}{
			{"slide_number": 1, "summary": "The mitochondrion generates ATP through oxidative phosphorylation."},
			{"slide_number": 2, "summary": "Osmosis moves water toward higher solute concentration."},
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	lectureId := extractId(body, "id")

	color.Yellow("\n2. Import Deck")
	resp, body, err = sendRequest("POST", "/deck/v1", token, map[string]interface{}{
		"name":      "Smoke Test Deck",
		"file_type": "csv",
		"content":   "What organelle produces ATP?,The mitochondrion\nDefine osmosis,Water movement across a membrane\n",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	deckId := extractId(body, "id")

	if lectureId == "" || deckId == "" {
		color.Red("Missing lecture or deck id, aborting")
		os.Exit(1)
	}

	color.Yellow("\n3. Run Alignment")
	resp, body, err = sendRequest("POST", "/alignment/v1/run", token, map[string]interface{}{
		"lecture_id": lectureId,
		"deck_id":    deckId,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n4. Poll Progress")
	for i := 0; i < 60; i++ {
		resp, body, err = sendRequest("GET", "/alignment/v1/"+lectureId+"/progress", token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		var envelope struct {
			Data struct {
				Status   string `json:"status"`
				Progress int    `json:"progress"`
			} `json:"data"`
		}
		_ = json.Unmarshal(body, &envelope)
		color.Green("Status: %s, progress: %d%%", envelope.Data.Status, envelope.Data.Progress)
		if envelope.Data.Status == "completed" || envelope.Data.Status == "failed" {
			break
		}
		time.Sleep(2 * time.Second)
	}

	color.Yellow("\n5. Fetch Report")
	resp, body, err = sendRequest("GET", "/alignment/v1/"+lectureId+"/report", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\n✅ Smoke test complete")
}
