package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := RoleEvent{
		Action:   "create",
		Tenant:   "acme",
		RoleName: "auditor",
		By:       "alice",
		ByTenant: "acme",
	}

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			sqlmock.AnyArg(), // id
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(), // timestamp
			sqlmock.AnyArg(), // hostname
			"warden",
			sqlmock.AnyArg(), // procid
			"role-create",
			sqlmock.AnyArg(), // sdata (JSON)
			sqlmock.AnyArg(), // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveDeniedCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := CheckEvent{
		Tenant:       "acme",
		Grantee:      "mallory",
		ResourceType: "report",
		Privilege:    "read",
		Granted:      false,
	}

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			sqlmock.AnyArg(),
			FacilityAuthPriv,
			int(SeverityWarning), // denied checks have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"warden",
			sqlmock.AnyArg(),
			"check",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.Record(RoleEvent{Action: "create"}) // must not panic
}
