package rdbms

import (
	"testing"

	"github.com/relloyd/stagecopy/rdbms/shared"
)

func TestSnowflakeParseDSN(t *testing.T) {
	// Test 1 - missing prefix.
	if _, err := SnowflakeParseDSN("bob:pw@acme/DB"); err == nil {
		t.Fatal("expected error for DSN without snowflake:// prefix")
	}
	// Test 2 - valid DSN.
	dsn := "snowflake://bob:pw@acme/SALES?schema=PUBLIC&warehouse=WH"
	d, err := SnowflakeParseDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if d.DBName != "SALES" || d.Schema != "PUBLIC" || d.User != "bob" || d.Warehouse != "WH" || d.Dsn != dsn {
		t.Fatalf("unexpected parsed details: %v", d)
	}
	// Test 3 - connection defaults.
	db, schema, err := SnowflakeGetConnectionDefaults(shared.ConnectionDetails{
		Type:        "snowflake",
		LogicalName: "sf",
		Data:        map[string]string{"dsn": dsn},
	})
	if err != nil {
		t.Fatal(err)
	}
	if db != "SALES" || schema != "PUBLIC" {
		t.Fatalf("expected SALES.PUBLIC; got %v.%v", db, schema)
	}
}
