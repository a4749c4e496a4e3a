package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	tenant       string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a warden server is running$`, s.aWardenServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)" in tenant "([^"]*)"$`, s.iAmAuthenticatedAs)

	sc.Step(`^I create a role "([^"]*)"$`, s.iCreateARole)
	sc.Step(`^role "([^"]*)" has child role "([^"]*)"$`, s.roleHasChildRole)
	sc.Step(`^role "([^"]*)" has permission "([^"]*)"$`, s.roleHasPermission)
	sc.Step(`^user "([^"]*)" holds role "([^"]*)"$`, s.userHoldsRole)

	sc.Step(`^user "([^"]*)" should have permission "([^"]*)"$`, s.userShouldHavePermission)
	sc.Step(`^user "([^"]*)" should not have permission "([^"]*)"$`, s.userShouldNotHavePermission)

	sc.Step(`^I share "([^"]*)" resource "([^"]*)" with "([^"]*)" for "([^"]*)"$`, s.iShareResource)
	sc.Step(`^grantee "([^"]*)" should have "([^"]*)" on "([^"]*)" resource "([^"]*)"$`, s.granteeShouldHavePrivilege)
	sc.Step(`^grantee "([^"]*)" should not have "([^"]*)" on "([^"]*)" resource "([^"]*)"$`, s.granteeShouldNotHavePrivilege)

	sc.Step(`^I store the value "([^"]*)" in secret "([^"]*)"$`, s.iStoreValueInSecret)
	sc.Step(`^the secret "([^"]*)" should have value "([^"]*)"$`, s.theSecretShouldHaveValue)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
}

func (s *StepsContext) aWardenServerIsRunning() error {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + "/status")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(user, tenant string) error {
	token, err := s.tc.Server.Tokens.Issue(tenant, user)
	if err != nil {
		return err
	}
	s.authToken = token
	s.tenant = tenant
	return nil
}

func (s *StepsContext) request(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iCreateARole(name string) error {
	payload, _ := json.Marshal(map[string]string{"name": name})
	return s.request(http.MethodPost, "/roles/"+s.tenant, bytes.NewReader(payload))
}

func (s *StepsContext) roleHasChildRole(parent, child string) error {
	for _, name := range []string{parent, child} {
		if err := s.iCreateARole(name); err != nil {
			return err
		}
	}
	if err := s.request(http.MethodPut,
		fmt.Sprintf("/roles/%s/%s/children/%s", s.tenant, parent, child), nil); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) roleHasPermission(role, permission string) error {
	if err := s.iCreateARole(role); err != nil {
		return err
	}
	payload, _ := json.Marshal(map[string]string{"permission": permission})
	if err := s.request(http.MethodPost,
		fmt.Sprintf("/roles/%s/%s/permissions", s.tenant, role), bytes.NewReader(payload)); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) userHoldsRole(user, role string) error {
	if err := s.request(http.MethodPut,
		fmt.Sprintf("/users/%s/%s/roles/%s", s.tenant, user, role), nil); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) checkUserPermission(user, permission string) (bool, error) {
	path := fmt.Sprintf("/users/%s/%s/check?permission=%s",
		s.tenant, user, url.QueryEscape(permission))
	if err := s.request(http.MethodGet, path, nil); err != nil {
		return false, err
	}
	if err := s.expectStatus(http.StatusOK); err != nil {
		return false, err
	}

	var result map[string]bool
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return false, err
	}
	return result["granted"], nil
}

func (s *StepsContext) userShouldHavePermission(user, permission string) error {
	granted, err := s.checkUserPermission(user, permission)
	if err != nil {
		return err
	}
	if !granted {
		return fmt.Errorf("expected %s to have permission %s", user, permission)
	}
	return nil
}

func (s *StepsContext) userShouldNotHavePermission(user, permission string) error {
	granted, err := s.checkUserPermission(user, permission)
	if err != nil {
		return err
	}
	if granted {
		return fmt.Errorf("expected %s to not have permission %s", user, permission)
	}
	return nil
}

func (s *StepsContext) iShareResource(resourceType, resourceID, grantee, privilege string) error {
	payload, _ := json.Marshal(map[string]string{
		"grantor":       "admin",
		"grantee":       grantee,
		"resource_type": resourceType,
		"resource_id1":  resourceID,
		"privilege":     privilege,
	})
	if err := s.request(http.MethodPost, "/shares/"+s.tenant, bytes.NewReader(payload)); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) checkPrivilege(grantee, privilege, resourceType, resourceID string) (bool, error) {
	query := url.Values{}
	query.Set("grantee", grantee)
	query.Set("resource_type", resourceType)
	query.Set("resource_id1", resourceID)
	query.Set("privilege", privilege)

	if err := s.request(http.MethodGet, "/shares/"+s.tenant+"/check?"+query.Encode(), nil); err != nil {
		return false, err
	}
	if err := s.expectStatus(http.StatusOK); err != nil {
		return false, err
	}

	var result map[string]bool
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return false, err
	}
	return result["granted"], nil
}

func (s *StepsContext) granteeShouldHavePrivilege(grantee, privilege, resourceType, resourceID string) error {
	granted, err := s.checkPrivilege(grantee, privilege, resourceType, resourceID)
	if err != nil {
		return err
	}
	if !granted {
		return fmt.Errorf("expected %s to have %s on %s %s", grantee, privilege, resourceType, resourceID)
	}
	return nil
}

func (s *StepsContext) granteeShouldNotHavePrivilege(grantee, privilege, resourceType, resourceID string) error {
	granted, err := s.checkPrivilege(grantee, privilege, resourceType, resourceID)
	if err != nil {
		return err
	}
	if granted {
		return fmt.Errorf("expected %s to not have %s on %s %s", grantee, privilege, resourceType, resourceID)
	}
	return nil
}

func (s *StepsContext) iStoreValueInSecret(value, path string) error {
	if err := s.request(http.MethodPost, "/secrets/"+s.tenant+path, strings.NewReader(value)); err != nil {
		return err
	}
	return s.expectStatus(http.StatusCreated)
}

func (s *StepsContext) theSecretShouldHaveValue(path, expected string) error {
	if err := s.request(http.MethodGet, "/secrets/"+s.tenant+path, nil); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusOK); err != nil {
		return err
	}
	if string(s.responseBody) != expected {
		return fmt.Errorf("expected secret value %q, got %q", expected, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	return s.expectStatus(status)
}

func (s *StepsContext) expectStatus(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}
