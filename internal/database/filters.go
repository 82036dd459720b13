package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FilterStore persists comment filter rules and serves them as an
// in-memory matcher. It implements the parser's CommentFilter
// collaborator.
type FilterStore struct {
	logger *zap.Logger

	mu        sync.RWMutex
	commenter []compiledRule
	comment   []compiledRule
}

type compiledRule struct {
	pattern string
	re      *regexp.Regexp // nil for plain substring rules
}

func (r compiledRule) matches(s string) bool {
	if r.re != nil {
		return r.re.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(r.pattern))
}

// NewFilterStore creates a filter store
func NewFilterStore(logger *zap.Logger) *FilterStore {
	return &FilterStore{logger: logger}
}

// Reload reads all filter rules from the database into memory. Rules with
// an invalid regex are skipped.
func (s *FilterStore) Reload(ctx context.Context) error {
	rows, err := GetPool().Query(ctx,
		`SELECT id, kind, pattern, is_regex FROM comment_filter ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query comment filters: %w", err)
	}
	defer rows.Close()

	var commenter, comment []compiledRule
	for rows.Next() {
		var rule FilterRule
		if err := rows.Scan(&rule.ID, &rule.Kind, &rule.Pattern, &rule.IsRegex); err != nil {
			return fmt.Errorf("scan comment filter: %w", err)
		}
		compiled := compiledRule{pattern: rule.Pattern}
		if rule.IsRegex {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				s.logger.Warn("invalid filter regex, skipping",
					zap.Int("id", rule.ID), zap.String("pattern", rule.Pattern))
				continue
			}
			compiled.re = re
		}
		switch rule.Kind {
		case "commenter":
			commenter = append(commenter, compiled)
		case "comment":
			comment = append(comment, compiled)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.commenter = commenter
	s.comment = comment
	s.mu.Unlock()

	s.logger.Debug("comment filters loaded",
		zap.Int("commenter_rules", len(commenter)),
		zap.Int("comment_rules", len(comment)),
	)
	return nil
}

// FilterCommenter reports whether a commenter name is filtered
func (s *FilterStore) FilterCommenter(user string) bool {
	if user == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.commenter {
		if r.matches(user) {
			return true
		}
	}
	return false
}

// FilterComment reports whether a comment body is filtered
func (s *FilterStore) FilterComment(commentHTML string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.comment {
		if r.matches(commentHTML) {
			return true
		}
	}
	return false
}

// Add stores a new rule and refreshes the in-memory matcher
func (s *FilterStore) Add(ctx context.Context, rule *FilterRule) error {
	if rule.Kind != "commenter" && rule.Kind != "comment" {
		return fmt.Errorf("unknown filter kind: %s", rule.Kind)
	}
	if rule.IsRegex {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("invalid filter regex: %w", err)
		}
	}
	err := GetPool().QueryRow(ctx,
		`INSERT INTO comment_filter (kind, pattern, is_regex) VALUES ($1, $2, $3) RETURNING id`,
		rule.Kind, rule.Pattern, rule.IsRegex,
	).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("insert comment filter: %w", err)
	}
	return s.Reload(ctx)
}

// Remove deletes a rule and refreshes the in-memory matcher
func (s *FilterStore) Remove(ctx context.Context, id int) error {
	if _, err := GetPool().Exec(ctx, `DELETE FROM comment_filter WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment filter: %w", err)
	}
	return s.Reload(ctx)
}

// List returns all stored rules
func (s *FilterStore) List(ctx context.Context) ([]FilterRule, error) {
	rows, err := GetPool().Query(ctx,
		`SELECT id, kind, pattern, is_regex FROM comment_filter ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query comment filters: %w", err)
	}
	defer rows.Close()

	var list []FilterRule
	for rows.Next() {
		var rule FilterRule
		if err := rows.Scan(&rule.ID, &rule.Kind, &rule.Pattern, &rule.IsRegex); err != nil {
			return nil, fmt.Errorf("scan comment filter: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}
