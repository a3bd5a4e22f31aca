package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// SeedSampleData installs the demo users and two backdated tickets. Users that already exist
// are left alone.
func (d *Desk) SeedSampleData(ctx context.Context) error {
	return d.run(ctx, func() error {
		now := d.clock()
		users := []domain.User{
			{Username: "john_doe", Role: domain.RoleEndUser},
			{Username: "sarah_agent", Role: domain.RoleAgent},
			{Username: "admin_mike", Role: domain.RoleAdmin},
		}
		for _, user := range users {
			if err := d.userRepo.Create(ctx, user); err != nil && !apperrors.IsCode(err, apperrors.CodeConflict) {
				return fmt.Errorf("seed user %s: %w", user.Username, err)
			}
		}

		agent := "sarah_agent"
		tickets := []domain.Ticket{
			{
				Subject:     "Login issues with mobile app",
				Description: "I can't log into the mobile app. It keeps showing 'Invalid credentials' even though I'm using the correct password.",
				Category:    "👤 Account",
				Status:      domain.TicketStatusOpen,
				Creator:     "john_doe",
				Comments:    []domain.Comment{},
				CreatedAt:   now.Add(-24 * time.Hour),
				UpdatedAt:   now.Add(-24 * time.Hour),
				Upvotes:     2,
			},
			{
				Subject:     "Feature request: Dark mode",
				Description: "It would be great to have a dark mode option in the application for better user experience during night time usage.",
				Category:    "✨ Feature Request",
				Status:      domain.TicketStatusInProgress,
				Creator:     "john_doe",
				AssignedTo:  &agent,
				Comments: []domain.Comment{{
					Author:    agent,
					Role:      domain.RoleAgent,
					Message:   "Thank you for the suggestion! We're currently working on implementing dark mode. It should be available in the next release.",
					Timestamp: now.Add(-12 * time.Hour),
				}},
				CreatedAt: now.Add(-48 * time.Hour),
				UpdatedAt: now.Add(-12 * time.Hour),
				Upvotes:   5,
				Downvotes: 1,
			},
		}
		for _, ticket := range tickets {
			if err := d.ticketRepo.Seed(ctx, ticket); err != nil {
				return fmt.Errorf("seed ticket %q: %w", ticket.Subject, err)
			}
		}
		d.logger.Info("sample data seeded", zap.Int("users", len(users)), zap.Int("tickets", len(tickets)))
		return nil
	})
}
