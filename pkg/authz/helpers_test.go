package authz

import "github.com/wardenhq/warden/pkg/store/storetest"

func newFakeStore() *storetest.Store { return storetest.New() }
