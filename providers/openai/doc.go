// Package openai adapts the chat completions and Responses deployments.
package openai
