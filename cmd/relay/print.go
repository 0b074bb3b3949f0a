package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/allenai/bytefmt"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/dashboard"
	"github.com/relaygate/relay/history"
)

func printJSON(v interface{}) error {
	return jsonOut.Encode(v)
}

func printTableRow(cells ...interface{}) error {
	var cellStrings []string
	for _, cell := range cells {
		var formatted string
		if t, ok := cell.(time.Time); ok {
			if !t.IsZero() {
				formatted = t.Format(time.RFC3339)
			}
		} else {
			formatted = fmt.Sprintf("%v", cell)
		}
		cellStrings = append(cellStrings, formatted)
	}
	_, err := fmt.Fprintln(tableOut, strings.Join(cellStrings, "\t"))
	return err
}

func printUsers(users []api.User) error {
	switch format {
	case formatJSON:
		return printJSON(users)
	default:
		if err := printTableRow("ID", "EMAIL", "DISPLAY NAME"); err != nil {
			return err
		}
		for _, user := range users {
			if err := printTableRow(user.ID, user.Email, user.DisplayName); err != nil {
				return err
			}
		}
		return nil
	}
}

func printMemberships(members []api.OrgMembership, current string) error {
	switch format {
	case formatJSON:
		return printJSON(members)
	default:
		if err := printTableRow("ID", "NAME", "ROLE", "JOINED", "CURRENT"); err != nil {
			return err
		}
		for _, member := range members {
			marker := ""
			if member.Organization.ID == current {
				marker = "*"
			}
			if err := printTableRow(
				member.Organization.ID,
				member.Organization.Name,
				member.Role,
				member.JoinedAt,
				marker,
			); err != nil {
				return err
			}
		}
		return nil
	}
}

func printMembers(members []api.OrgMembership) error {
	switch format {
	case formatJSON:
		return printJSON(members)
	default:
		if err := printTableRow("ID", "EMAIL", "ROLE", "JOINED"); err != nil {
			return err
		}
		for _, member := range members {
			if err := printTableRow(
				member.User.ID,
				member.User.Email,
				member.Role,
				member.JoinedAt,
			); err != nil {
				return err
			}
		}
		return nil
	}
}

func printAPIKeys(keys []api.APIKey) error {
	switch format {
	case formatJSON:
		return printJSON(keys)
	default:
		if err := printTableRow("ID", "NAME", "PROVIDER", "KEY", "CREATED"); err != nil {
			return err
		}
		for _, key := range keys {
			if err := printTableRow(key.ID, key.Name, key.Provider, key.MaskedKey, key.Created); err != nil {
				return err
			}
		}
		return nil
	}
}

func printAccessTokens(tokens []api.AccessToken) error {
	switch format {
	case formatJSON:
		return printJSON(tokens)
	default:
		if err := printTableRow("ID", "NAME", "PREFIX", "CREATED", "LAST USED"); err != nil {
			return err
		}
		for _, token := range tokens {
			if err := printTableRow(token.ID, token.Name, token.Prefix, token.Created, token.LastUsed); err != nil {
				return err
			}
		}
		return nil
	}
}

func printModels(models []api.Model) error {
	switch format {
	case formatJSON:
		return printJSON(models)
	default:
		if err := printTableRow("ID", "PROVIDER", "NAME", "INPUT $/MTOK", "OUTPUT $/MTOK"); err != nil {
			return err
		}
		for _, model := range models {
			if err := printTableRow(
				model.ID,
				model.Provider,
				model.DisplayName,
				model.InputPrice,
				model.OutputPrice,
			); err != nil {
				return err
			}
		}
		return nil
	}
}

func printHistory(items []history.Item) error {
	switch format {
	case formatJSON:
		return printJSON(items)
	default:
		if err := printTableRow("TIME", "MODEL", "PROMPT", "SIZE", "ERROR"); err != nil {
			return err
		}
		for _, item := range items {
			var size string
			if item.Size > 0 {
				size = bytefmt.New(item.Size, bytefmt.Binary).String()
			}
			if err := printTableRow(
				item.Time,
				item.Request.Model,
				truncate(item.Request.Prompt, 48),
				size,
				item.Err,
			); err != nil {
				return err
			}
		}
		return nil
	}
}

func printDashboard(data *dashboard.Data) error {
	switch format {
	case formatJSON:
		return printJSON(data)
	default:
		total, err := data.TotalCost()
		if err != nil {
			return err
		}
		fmt.Printf(
			"Requests: %d  Tokens: %d  Cost: $%s  Providers: %s\n\n",
			data.Summary.TotalRequests,
			data.Summary.TotalTokens,
			total.StringFixed(4),
			strings.Join(data.AvailableProviders(), ", "),
		)

		if err := printTableRow("DATE", "REQUESTS", "TOKENS", "COST"); err != nil {
			return err
		}
		for _, point := range data.Trend {
			if err := printTableRow(point.Date, point.Requests, point.Tokens, point.Cost); err != nil {
				return err
			}
		}
		if err := printTableRow(); err != nil {
			return err
		}

		if err := printTableRow("PROVIDER", "REQUESTS", "TOKENS", "COST"); err != nil {
			return err
		}
		for _, row := range data.Costs {
			if err := printTableRow(row.Provider, row.Requests, row.Tokens, row.Cost); err != nil {
				return err
			}
		}
		return nil
	}
}

// truncate shortens s to max characters. Counted in runes so multibyte
// prompts are never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
