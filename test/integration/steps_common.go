package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	gormstore "github.com/doodlesbykumbi/blog-in-go/pkg/server/store/gorm"
)

// envelope is the shape of every API response
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc     *TestContext
	server *ServerInstance

	response     *http.Response
	responseBody []byte
	envelope     envelope

	// authToken is sent as a bearer token when set
	authToken string
	// vars are substituted for {name} in paths and bodies
	vars map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:   tc,
		vars: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if s.server != nil {
			s.server.Stop()
		}
		return ctx, nil
	})

	// Background steps
	sc.Step(`^a blog server is running$`, s.aBlogServerIsRunning)
	sc.Step(`^a blog server is running with an upload limit of (\d+) bytes$`, s.aBlogServerIsRunningWithUploadLimit)
	sc.Step(`^a blog server is running that accepts disabled accounts$`, s.aBlogServerIsRunningThatAcceptsDisabledAccounts)

	// Account steps
	sc.Step(`^a registered user "([^"]*)" with password "([^"]*)"$`, s.aRegisteredUser)
	sc.Step(`^user "([^"]*)" has role "([^"]*)"$`, s.userHasRole)
	sc.Step(`^user "([^"]*)" is disabled$`, s.userIsDisabled)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedInAs)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I am not logged in$`, s.iAmNotLoggedIn)

	// Request steps
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I upload "([^"]*)" as "([^"]*)" with content "([^"]*)"$`, s.iUploadFile)
	sc.Step(`^I save the response data field "([^"]*)" as "([^"]*)"$`, s.iSaveTheResponseDataField)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response message should be "([^"]*)"$`, s.theResponseMessageShouldBe)
	sc.Step(`^the response data field "([^"]*)" should be "([^"]*)"$`, s.theResponseDataFieldShouldBe)
	sc.Step(`^the response data field "([^"]*)" should contain "([^"]*)"$`, s.theResponseDataFieldShouldContain)
	sc.Step(`^the response data field "([^"]*)" should be absent$`, s.theResponseDataFieldShouldBeAbsent)
	sc.Step(`^the response data should be null$`, s.theResponseDataShouldBeNull)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)

	s.registerAuthSteps(sc)
}

// Background steps

func (s *StepsContext) aBlogServerIsRunning() error {
	return s.start(DefaultServerConfig())
}

func (s *StepsContext) aBlogServerIsRunningWithUploadLimit(limit int64) error {
	cfg := DefaultServerConfig()
	cfg.MaxUploadSize = limit
	return s.start(cfg)
}

func (s *StepsContext) aBlogServerIsRunningThatAcceptsDisabledAccounts() error {
	cfg := DefaultServerConfig()
	cfg.RejectInactive = false
	return s.start(cfg)
}

func (s *StepsContext) start(cfg ServerConfig) error {
	instance, err := StartServer(s.tc, cfg)
	if err != nil {
		return err
	}
	s.server = instance
	return nil
}

// Account steps

func (s *StepsContext) aRegisteredUser(username, password string) error {
	body := fmt.Sprintf(`{"username":%q,"password":%q,"confirmPassword":%q}`, username, password, password)
	if err := s.do(http.MethodPost, "/user/register", "application/json", strings.NewReader(body)); err != nil {
		return err
	}
	if err := s.theResponseStatusShouldBe(http.StatusCreated); err != nil {
		return err
	}
	return s.iSaveTheResponseDataField("id", username+".id")
}

func (s *StepsContext) userHasRole(username, name string) error {
	level, err := role.RoleString(name)
	if err != nil {
		return err
	}
	return gormstore.NewUsersStore(s.tc.DB).SetRole(context.Background(), username, level)
}

func (s *StepsContext) userIsDisabled(username string) error {
	return gormstore.NewUsersStore(s.tc.DB).SetActive(context.Background(), username, false)
}

func (s *StepsContext) iAmLoggedInAs(username, password string) error {
	if err := s.iLogInAs(username, password); err != nil {
		return err
	}
	if err := s.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}
	raw, err := s.dataField("token")
	if err != nil {
		return err
	}
	s.authToken = raw
	return nil
}

func (s *StepsContext) iLogInAs(username, password string) error {
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	return s.do(http.MethodPost, "/user/login", "application/json", strings.NewReader(body))
}

func (s *StepsContext) iAmNotLoggedIn() error {
	s.authToken = ""
	return nil
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, s.expand(path), "", nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, s.expand(path), "application/json", strings.NewReader(s.expand(body.Content)))
}

func (s *StepsContext) iUploadFile(name, contentType, content string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(part, content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return s.do(http.MethodPost, "/file/upload", mw.FormDataContentType(), &buf)
}

func (s *StepsContext) iSaveTheResponseDataField(field, name string) error {
	value, err := s.dataField(field)
	if err != nil {
		return err
	}
	s.vars[name] = value
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseMessageShouldBe(expected string) error {
	if s.envelope.Message != expected {
		return fmt.Errorf("expected message %q, got %q", expected, s.envelope.Message)
	}
	return nil
}

func (s *StepsContext) theResponseDataFieldShouldBe(field, expected string) error {
	actual, err := s.dataField(field)
	if err != nil {
		return err
	}
	if expected = s.expand(expected); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseDataFieldShouldContain(field, expected string) error {
	actual, err := s.dataField(field)
	if err != nil {
		return err
	}
	if !strings.Contains(actual, s.expand(expected)) {
		return fmt.Errorf("expected %s to contain %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseDataFieldShouldBeAbsent(field string) error {
	if _, err := s.dataField(field); err == nil {
		return fmt.Errorf("expected %s to be absent: %s", field, string(s.envelope.Data))
	}
	return nil
}

func (s *StepsContext) theResponseDataShouldBeNull() error {
	if data := strings.TrimSpace(string(s.envelope.Data)); data != "null" && data != "" {
		return fmt.Errorf("expected null data, got %s", data)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	actual := strings.TrimSpace(string(s.responseBody))
	if actual != expected {
		return fmt.Errorf("expected body %q, got %q", expected, actual)
	}
	return nil
}

// do sends a request to the scenario's server and records the response
func (s *StepsContext) do(method, path, contentType string, body io.Reader) error {
	if s.server == nil {
		return fmt.Errorf("no blog server is running")
	}

	req, err := http.NewRequest(method, s.server.ServerURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	s.envelope = envelope{}
	if strings.HasPrefix(s.response.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(s.responseBody, &s.envelope); err != nil {
			return fmt.Errorf("response is not an envelope: %w", err)
		}
		if s.envelope.Code != s.response.StatusCode {
			return fmt.Errorf("envelope code %d does not match status %d", s.envelope.Code, s.response.StatusCode)
		}
	}
	return nil
}

// dataField resolves a dotted path such as "list.0.title" in the response
// data and renders the value as text
func (s *StepsContext) dataField(path string) (string, error) {
	var value interface{}
	if err := json.Unmarshal(s.envelope.Data, &value); err != nil {
		return "", fmt.Errorf("failed to decode data: %w", err)
	}

	for _, key := range strings.Split(path, ".") {
		switch node := value.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return "", fmt.Errorf("field %q not found in %s", path, string(s.envelope.Data))
			}
			value = v
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", fmt.Errorf("index %q out of range in %q", key, path)
			}
			value = node[i]
		default:
			return "", fmt.Errorf("field %q not found in %s", path, string(s.envelope.Data))
		}
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "null", nil
	default:
		b, err := json.Marshal(v)
		return string(b), err
	}
}

// expand replaces {name} with saved values
func (s *StepsContext) expand(text string) string {
	for name, value := range s.vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
