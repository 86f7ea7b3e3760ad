package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/tenant-config/pkg/seed"
	gormstore "github.com/doodlesbykumbi/tenant-config/pkg/server/store/gorm"
)

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	vars         map[string]string
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
		return ctx, s.tc.Truncate()
	})

	// Background steps
	sc.Step(`^the tenant configuration server is running$`, s.theServerIsRunning)
	sc.Step(`^the catalog is seeded with:$`, s.theCatalogIsSeededWith)
	sc.Step(`^the (country|module|product) "([^"]*)" is known as "([^"]*)"$`, s.theCodeIsKnownAs)

	// Request steps
	sc.Step(`^I (GET|DELETE) "([^"]*)"$`, s.iRequest)
	sc.Step(`^I (POST|PUT) "([^"]*)" with:$`, s.iRequestWith)
	sc.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, s.iRememberTheResponseField)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should have (\d+) items?$`, s.theResponseFieldShouldHaveItems)

	// Database steps
	sc.Step(`^branch "([^"]*)" should have (\d+) configured modules?$`, s.branchShouldHaveConfiguredModules)
	sc.Step(`^an audit message "([^"]*)" should have been recorded$`, s.anAuditMessageShouldHaveBeenRecorded)
}

func (s *StepsContext) expand(text string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := s.vars[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Background steps

func (s *StepsContext) theServerIsRunning() error {
	return waitForServer(s.tc.ServerURL(), 5*time.Second)
}

func (s *StepsContext) theCatalogIsSeededWith(doc *godog.DocString) error {
	loader := seed.NewLoader(gormstore.NewStore(s.tc.DB)).WithCreatedBy("cucumber")
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(doc.Content))
	return err
}

func (s *StepsContext) theCodeIsKnownAs(table, code, name string) error {
	queries := map[string]string{
		"country": `SELECT country_id FROM country WHERE country_code = ?`,
		"module":  `SELECT module_id FROM module WHERE code = ?`,
		"product": `SELECT product_id FROM product WHERE code = ?`,
	}
	var id int64
	if err := s.tc.DB.Raw(queries[table], code).Scan(&id).Error; err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("%s %q does not exist", table, code)
	}
	s.vars[name] = strconv.FormatInt(id, 10)
	return nil
}

// Request steps

func (s *StepsContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL()+s.expand(path), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iRequest(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iRequestWith(method, path string, doc *godog.DocString) error {
	return s.do(method, path, bytes.NewReader([]byte(s.expand(doc.Content))))
}

func (s *StepsContext) iRememberTheResponseField(field, name string) error {
	v, err := s.field(field)
	if err != nil {
		return err
	}
	s.vars[name] = fmt.Sprint(v)
	return nil
}

// Response steps

// field walks a dotted path through the JSON body; numeric segments index
// into arrays
func (s *StepsContext) field(path string) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(s.responseBody))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s not found in %s", path, s.responseBody)
			}
			v = next
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %s out of range in %s", part, path)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("field %s not found in %s", path, s.responseBody)
		}
	}
	return v, nil
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	v, err := s.field(field)
	if err != nil {
		return err
	}
	expected = s.expand(expected)
	if actual := fmt.Sprint(v); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldHaveItems(field string, count int) error {
	v, err := s.field(field)
	if err != nil {
		return err
	}
	items, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("%s is not a list: %v", field, v)
	}
	if len(items) != count {
		return fmt.Errorf("expected %s to have %d items, got %d", field, count, len(items))
	}
	return nil
}

// Database steps

func (s *StepsContext) branchShouldHaveConfiguredModules(branch string, count int) error {
	var n int64
	err := s.tc.DB.Raw(`SELECT COUNT(*) FROM branch_product_module WHERE branch_id = ?`, s.expand(branch)).Scan(&n).Error
	if err != nil {
		return err
	}
	if int(n) != count {
		return fmt.Errorf("expected %d configured modules, got %d", count, n)
	}
	return nil
}

func (s *StepsContext) anAuditMessageShouldHaveBeenRecorded(msgID string) error {
	var n int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM messages WHERE msgid = ?`, msgID).Scan(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no audit message %q recorded", msgID)
	}
	return nil
}
