package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Account is the subset of Account fields the sink reads back.
type Account struct {
	ID      string `json:"Id" salesforce:"Id"`
	Name    string `json:"Name" salesforce:"Name"`
	Website string `json:"Website" salesforce:"Website"`
}

// Contact is the subset of Contact fields the sink reads back.
type Contact struct {
	ID        string `json:"Id" salesforce:"Id"`
	AccountID string `json:"AccountId" salesforce:"AccountId"`
	Email     string `json:"Email" salesforce:"Email"`
}

// FindAccountByWebsite returns the first Account whose Website contains
// domain, or nil.
func FindAccountByWebsite(ctx context.Context, c Client, domain string) (*Account, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name, Website FROM Account WHERE Website LIKE '%%%s%%' LIMIT 1",
		escapeSoql(domain),
	)
	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find account by website %s", domain))
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// FindContactByEmail returns the Contact with the given email, or nil.
func FindContactByEmail(ctx context.Context, c Client, email string) (*Contact, error) {
	soql := fmt.Sprintf(
		"SELECT Id, AccountId, Email FROM Contact WHERE Email = '%s' LIMIT 1",
		escapeSoql(email),
	)
	var contacts []Contact
	if err := c.Query(ctx, soql, &contacts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find contact by email %s", email))
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// UpsertAccount updates the Account matched by domain or creates one.
func UpsertAccount(ctx context.Context, c Client, domain string, fields map[string]any) (string, error) {
	existing, err := FindAccountByWebsite(ctx, c, domain)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := c.UpdateOne(ctx, "Account", existing.ID, fields); err != nil {
			return "", eris.Wrap(err, fmt.Sprintf("sf: update account %s", existing.ID))
		}
		return existing.ID, nil
	}
	if fields["Name"] == nil || fields["Name"] == "" {
		return "", eris.New("sf: account Name is required")
	}
	id, err := c.InsertOne(ctx, "Account", fields)
	if err != nil {
		return "", eris.Wrap(err, "sf: create account")
	}
	return id, nil
}

// UpsertContact updates the Contact matched by email or creates one under
// accountID.
func UpsertContact(ctx context.Context, c Client, accountID, email string, fields map[string]any) (string, error) {
	if accountID == "" {
		return "", eris.New("sf: account id is required for contact")
	}
	existing, err := FindContactByEmail(ctx, c, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := c.UpdateOne(ctx, "Contact", existing.ID, fields); err != nil {
			return "", eris.Wrap(err, fmt.Sprintf("sf: update contact %s", existing.ID))
		}
		return existing.ID, nil
	}
	rec := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		rec[k] = v
	}
	rec["AccountId"] = accountID
	rec["Email"] = email
	// LastName is required on Contact.
	if rec["LastName"] == nil || rec["LastName"] == "" {
		rec["LastName"] = email
	}
	id, err := c.InsertOne(ctx, "Contact", rec)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: create contact for account %s", accountID))
	}
	return id, nil
}

// CreateTask logs a completed Task against an account and optional contact.
func CreateTask(ctx context.Context, c Client, accountID, contactID string, fields map[string]any) (string, error) {
	rec := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		rec[k] = v
	}
	rec["WhatId"] = accountID
	if contactID != "" {
		rec["WhoId"] = contactID
	}
	if rec["Status"] == nil {
		rec["Status"] = "Completed"
	}
	id, err := c.InsertOne(ctx, "Task", rec)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: create task for account %s", accountID))
	}
	return id, nil
}

// escapeSoql escapes SOQL string literal metacharacters.
func escapeSoql(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}
