// seed_parameters.go seeds the Notion connection parameters through the Productivity API.
//
// Usage:
//
//	go run scripts/seed_parameters.go -api http://localhost:8700 -token $ADMIN_TOKEN \
//	    -url https://api.notion.com/v1/databases/<id>/query -notion-token $NOTION_TOKEN
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type parameterRequest struct {
	Value string `json:"value"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Productivity API base URL")
	adminToken := flag.String("token", os.Getenv("PRODUCTIVITY_ADMIN_TOKEN"), "admin bearer token")
	baseURL := flag.String("url", "", "Notion database query URL")
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion integration token")
	notionVersion := flag.String("notion-version", "2022-06-28", "Notion-Version header value")
	dryRun := flag.Bool("dry-run", false, "print parameters without posting")
	flag.Parse()

	if strings.TrimSpace(*baseURL) == "" {
		log.Fatal("-url is required")
	}
	if strings.TrimSpace(*notionToken) == "" {
		log.Fatal("-notion-token or NOTION_TOKEN is required")
	}

	headers, err := json.Marshal(map[string]string{
		"Authorization":  "Bearer " + *notionToken,
		"Notion-Version": *notionVersion,
		"Content-Type":   "application/json",
	})
	if err != nil {
		log.Fatalf("encode headers: %v", err)
	}

	params := []struct {
		description string
		value       string
	}{
		{"URL_BASE_NOTION", *baseURL},
		{"HEADERS_NOTION", string(headers)},
	}

	if *dryRun {
		for _, p := range params {
			fmt.Printf("%s = %s\n", p.description, redact(p.value, *notionToken))
		}
		return
	}

	client := &http.Client{}
	failed := 0
	for _, p := range params {
		body, _ := json.Marshal(parameterRequest{Value: p.value})
		req, err := http.NewRequest(http.MethodPut, *apiURL+"/api/v1/parameters/"+p.description, bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %s: %v", p.description, err)
			failed++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if *adminToken != "" {
			req.Header.Set("Authorization", "Bearer "+*adminToken)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %s: %v", p.description, err)
			failed++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("skip %s: status %d", p.description, resp.StatusCode)
			failed++
			continue
		}
		log.Printf("seeded %s", p.description)
	}

	if failed > 0 {
		log.Fatalf("done: %d of %d parameters failed", failed, len(params))
	}
	log.Printf("done: %d parameters seeded", len(params))
}

func redact(value, secret string) string {
	if secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "***")
}
