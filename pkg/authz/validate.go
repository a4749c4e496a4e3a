package authz

import "regexp"

// Role names start with a letter, followed by letters, digits or
// underscores. The façade validates against its schema first; this is
// defense in depth.
var roleNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func requireNonBlank(op, tenant, field, value string) error {
	if value == "" {
		return validationf(op, tenant, "%s must not be blank", field)
	}
	return nil
}

func validateRoleName(op, tenant, name string) error {
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return err
	}
	if !roleNameRegex.MatchString(name) {
		return validationf(op, tenant, "role name %q is not valid: names start with a letter followed by letters, digits or underscores", name)
	}
	return nil
}
