package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

// Validate reports every problem with req at once. It never touches the network.
func Validate(req PushRequest) error {
	var problems *multierror.Error

	if err := req.Repo.Validate(); err != nil {
		problems = multierror.Append(problems, err)
	}
	if len(req.Files) == 0 {
		problems = multierror.Append(problems, pusherrors.ErrNoFiles)
	}
	if strings.TrimSpace(req.Branch) == "" {
		problems = multierror.Append(problems, fmt.Errorf("branch is required"))
	}
	if strings.TrimSpace(req.Message) == "" {
		problems = multierror.Append(problems, fmt.Errorf("commit message is required"))
	}
	if strings.TrimSpace(req.AuthorEmail) == "" {
		problems = multierror.Append(problems, fmt.Errorf("author email is required"))
	}
	switch req.Mode {
	case "", ModeSequential, ModeConcurrent:
	default:
		problems = multierror.Append(problems, fmt.Errorf("unknown upload mode %q", req.Mode))
	}

	candidates := make([]Candidate, len(req.Files))
	for i, f := range req.Files {
		candidates[i] = Candidate{Path: f.Path}
	}
	if _, err := treeEntries(candidates); err != nil {
		var verr *pusherrors.ValidationError
		if errors.As(err, &verr) {
			problems = multierror.Append(problems, verr.Problems()...)
		} else {
			problems = multierror.Append(problems, err)
		}
	}

	return pusherrors.NewValidationError(problems)
}
