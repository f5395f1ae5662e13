package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"story-analyzer/internal/config"
	"story-analyzer/internal/models"
)

// AnalyzeStoryMutation is the only GraphQL operation the client issues
const AnalyzeStoryMutation = `mutation AnalyzeStory($input: StoryInput!) {
  analyzeStory(input: $input) {
    id
    story
    acceptanceCriteria
    analysis {
      agileCoach {
        analysis
        recommendations
        risks
      }
      seniorDev {
        analysis
        technicalDetails {
          feasibility
          complexity
          dependencies
          risks
        }
        risks
      }
      teamEstimates {
        days {
          average
          individual {
            name
            role
            estimate
            confidence
          }
        }
        points {
          average
          fibonacci
          individual {
            name
            role
            estimate
            confidence
          }
        }
      }
    }
  }
}`

// GraphQLError collects the errors array of a GraphQL response
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQLRepository handles the GraphQL analysis endpoint
type GraphQLRepository struct {
	config *config.APIConfig
	client *http.Client
}

// NewGraphQLRepository creates a new GraphQL repository
func NewGraphQLRepository(apiConfig *config.APIConfig) *GraphQLRepository {
	return &GraphQLRepository{
		config: apiConfig,
		client: &http.Client{
			Timeout: time.Duration(apiConfig.TimeoutSeconds) * time.Second,
		},
	}
}

// AnalyzeStory runs the AnalyzeStory mutation
func (r *GraphQLRepository) AnalyzeStory(ctx context.Context, input *models.StoryInput) (*models.StoryAnalysis, error) {
	payload := graphQLRequest{
		Query:         AnalyzeStoryMutation,
		OperationName: "AnalyzeStory",
		Variables:     map[string]interface{}{"input": input},
	}

	var data struct {
		AnalyzeStory *models.StoryAnalysis `json:"analyzeStory"`
	}
	if err := r.do(ctx, payload, &data); err != nil {
		return nil, err
	}

	if data.AnalyzeStory == nil {
		return nil, fmt.Errorf("graphql response contained no analyzeStory result")
	}

	return data.AnalyzeStory, nil
}

func (r *GraphQLRepository) do(ctx context.Context, payload graphQLRequest, target interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := r.config.BaseURL + r.config.GraphQLPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range gqlResp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}

	if err := json.Unmarshal(gqlResp.Data, target); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}

	return nil
}
