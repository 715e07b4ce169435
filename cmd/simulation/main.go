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

var accessToken string

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func dataField(raw []byte) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(raw, &envelope)
	return envelope.Data
}

func main() {
	color.Cyan("🚀 Assistant End-to-End Simulation\n")

	// 1. Login (falls back to registering the account on first run)
	color.Yellow("\n[AUTH] 1. Login")
	creds := map[string]interface{}{
		"email":    "demo@example.com",
		"password": "demo-password",
	}
	resp, body, err := sendRequest("POST", "/auth/login", creds)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != 200 {
		color.Yellow("Login failed (%s), registering demo account", resp.Status)
		register := map[string]interface{}{
			"email":     "demo@example.com",
			"password":  "demo-password",
			"full_name": "Demo User",
			"timezone":  "UTC",
		}
		if _, _, err := sendRequest("POST", "/auth/register", register); err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		resp, body, err = sendRequest("POST", "/auth/login", creds)
		if err != nil || resp.StatusCode != 200 {
			color.Red("Login still failing: %v (%s)", err, resp.Status)
			os.Exit(1)
		}
	}
	accessToken, _ = dataField(body)["access_token"].(string)
	color.Green("Logged in")

	// 2. Ongoing instruction
	color.Yellow("\n[ASSISTANT] 2. Submit standing rule")
	resp, body, err = sendRequest("POST", "/assistant/v1/instruction", map[string]interface{}{
		"instruction": "Whenever an email about an invoice arrives, notify me immediately. This is urgent.",
	})
	report(resp, body, err)

	// 3. One-off task
	color.Yellow("\n[ASSISTANT] 3. Submit one-off task")
	resp, body, err = sendRequest("POST", "/assistant/v1/instruction", map[string]interface{}{
		"instruction": "Send the quarterly report summary to the finance team",
	})
	report(resp, body, err)

	// 4. Immediate question
	color.Yellow("\n[ASSISTANT] 4. Ask a question")
	resp, body, err = sendRequest("POST", "/assistant/v1/instruction", map[string]interface{}{
		"instruction": "What meetings do I have this week?",
	})
	report(resp, body, err)

	// 5. Ingest a document, give the embedding worker a moment
	color.Yellow("\n[DOCUMENT] 5. Ingest a synced email")
	resp, body, err = sendRequest("POST", "/document/v1", map[string]interface{}{
		"document_id":   "7d3c83d4-5b1e-4f5e-9a43-0a67b14c9f21",
		"document_type": "email",
		"content":       "Invoice #4821 from Acme Corp is due on Friday. Total amount: $2,300.",
		"metadata":      map[string]interface{}{"from": "billing@acme.example"},
	})
	report(resp, body, err)
	time.Sleep(2 * time.Second)

	// 6. Grounded chat
	color.Yellow("\n[CHAT] 6. Ask about the ingested email")
	resp, body, err = sendRequest("POST", "/chat/v1/send", map[string]interface{}{
		"content": "When is the Acme invoice due?",
	})
	report(resp, body, err)

	// 7. Tasks so far
	color.Yellow("\n[TASK] 7. List tasks")
	resp, body, err = sendRequest("GET", "/task/v1", nil)
	report(resp, body, err)

	color.Cyan("\n✅ Simulation finished")
}

func report(resp *http.Response, body []byte, err error) {
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(body)
}
