package solver

import (
	"fmt"
	"strings"
)

// Prompts is the PromptSource built from a Definition.
type Prompts struct {
	system  string
	initial string
	fence   string
}

// NewPrompts creates a prompt source. fence is the tag the model is asked
// to use for dictionary blocks.
func NewPrompts(system, initial, fence string) *Prompts {
	return &Prompts{system: system, initial: initial, fence: fence}
}

// PromptSource returns the definition's prompts, generating generic ones
// for any that are not set.
func (d Definition) PromptSource() *Prompts {
	def := d.Normalized()
	system := def.Prompts.System
	if strings.TrimSpace(system) == "" {
		system = genericSystemPrompt(def)
	}
	initial := def.Prompts.Initial
	if strings.TrimSpace(initial) == "" {
		initial = genericInitialPrompt(def)
	}
	return NewPrompts(system, initial, def.Fences[0])
}

func (p *Prompts) SystemPrompt() string  { return p.system }
func (p *Prompts) InitialPrompt() string { return p.initial }

func (p *Prompts) MissingFilesPrompt(missing []string) string {
	return fmt.Sprintf(`Based on the case requirements we discussed, please create the following configuration files:
%s

For each file, provide the complete content in a `+"```%s"+` code block that declares the file with an "object <name>;" entry.`,
		strings.Join(missing, ", "), p.fence)
}

func genericSystemPrompt(def Definition) string {
	var files []string
	for _, req := range def.Required {
		files = append(files, req.Requirement().Label)
	}
	return fmt.Sprintf(`You are an expert in %s case setup. Your task is to help users create the configuration files for their simulation case.

Generate complete files for: %s.

Output your responses in markdown format. When providing configuration files, use `+"```%s"+` code blocks, and declare each file's name with an "object <name>;" entry inside the block.`,
		def.DisplayName, strings.Join(files, ", "), def.Fences[0])
}

func genericInitialPrompt(def Definition) string {
	return fmt.Sprintf(`I need help setting up a %s case. Please ask me about the geometry, the physics I want to model, the mesh I need and the boundary conditions, then propose the configuration files.`,
		def.DisplayName)
}
