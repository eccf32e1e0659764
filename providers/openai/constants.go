package openai

import "time"

// Registry names.
const (
	APIName          = "openai"
	ResponsesAPIName = "openai-responses"
)

// Chat completions deployment.
const (
	BaseURL           = "https://zs1smmmclh.execute-api.us-east-1.amazonaws.com"
	PathCompletions   = "/completions"
	DefaultDeployment = "o4-mini"
	DefaultAPIVersion = "2024-12-01-preview"
	DefaultRetries    = 3
	DefaultTimeout    = 30 * time.Second
)

// Image generation deployment.
const (
	ImageBaseURL           = "https://t436qa2399.execute-api.us-east-1.amazonaws.com"
	ImageDefaultDeployment = "gpt-image-1"
	ImageDefaultAPIVersion = "2025-04-01-preview"
)

// Responses API deployment.
const (
	ResponsesBaseURL           = "https://gammon-llm-api-service-deploy-ethos505-stage-va6-1688e7.stage.cloud.adobe.io"
	PathResponses              = "/openai"
	ResponsesDefaultModel      = "gpt-5"
	ResponsesDefaultAPIVersion = "2025-04-01-preview"
	ResponsesDefaultTimeout    = 60 * time.Second
	ResponsesDefaultRetries    = 3
)

// Deployments.
const (
	DeploymentO4Mini    = "o4-mini"
	DeploymentGPT4o     = "gpt-4o"
	DeploymentGPT4oMini = "gpt-4o-mini"
)

// Roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
)
