package integration

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

func (s *StepsContext) registerAuthSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I should receive a valid session token for "([^"]*)"$`, s.iShouldReceiveAValidSessionToken)
	sc.Step(`^I use a token for "([^"]*)" signed with another secret$`, s.iUseATokenSignedWithAnotherSecret)
	sc.Step(`^I use an expired token for "([^"]*)"$`, s.iUseAnExpiredToken)
	sc.Step(`^I use the token "([^"]*)"$`, s.iUseTheToken)
}

func (s *StepsContext) iShouldReceiveAValidSessionToken(username string) error {
	raw, err := s.dataField("token")
	if err != nil {
		return err
	}

	svc, err := token.NewService([]byte(testJWTSecret), s.server.Config.TokenTTL)
	if err != nil {
		return err
	}
	claims, err := svc.Verify(raw)
	if err != nil {
		return fmt.Errorf("token did not verify: %w", err)
	}

	if want := s.vars[username+".id"]; claims.Subject != want {
		return fmt.Errorf("expected token subject %q, got %q", want, claims.Subject)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != s.server.Config.TokenTTL {
		return fmt.Errorf("expected token lifetime %s, got %s", s.server.Config.TokenTTL, got)
	}
	return nil
}

func (s *StepsContext) iUseATokenSignedWithAnotherSecret(username string) error {
	svc, err := token.NewService([]byte("another-secret-that-is-long-enough!!"), time.Hour)
	if err != nil {
		return err
	}
	return s.useIssued(svc, username)
}

func (s *StepsContext) iUseAnExpiredToken(username string) error {
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc, err := token.NewService([]byte(testJWTSecret), time.Hour, token.WithClock(func() time.Time {
		return issuedAt
	}))
	if err != nil {
		return err
	}
	return s.useIssued(svc, username)
}

func (s *StepsContext) iUseTheToken(raw string) error {
	s.authToken = raw
	return nil
}

func (s *StepsContext) useIssued(svc *token.Service, username string) error {
	id, ok := s.vars[username+".id"]
	if !ok {
		return fmt.Errorf("user %q was not registered in this scenario", username)
	}
	raw, err := svc.Issue(id)
	if err != nil {
		return err
	}
	s.authToken = raw
	return nil
}
