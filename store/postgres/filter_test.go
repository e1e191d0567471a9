package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/pawhub/leash/store"
)

func TestRenderNil(t *testing.T) {
	expr, args, err := render(nil)
	if err != nil || expr != "" || args != nil {
		t.Fatalf("expr=%q args=%v err=%v", expr, args, err)
	}
}

func TestRenderIDUsesDocIDColumn(t *testing.T) {
	expr, args, err := render(store.Eq("id", "user_1"))
	if err != nil {
		t.Fatal(err)
	}
	if expr != "doc_id = ?" || !reflect.DeepEqual(args, []any{"user_1"}) {
		t.Fatalf("expr=%q args=%v", expr, args)
	}
}

func TestRenderTree(t *testing.T) {
	f := store.And(
		store.InStrings("status", []string{"pending", "approved"}),
		store.Or(
			store.Eq("senderId", "user_1"),
			store.Eq("recipientId", "user_1"),
		),
	)
	expr, args, err := render(f)
	if err != nil {
		t.Fatal(err)
	}
	want := "(data->>'status' IN (?, ?) AND (data->>'senderId' = ? OR data->>'recipientId' = ?))"
	if expr != want {
		t.Fatalf("expr = %q", expr)
	}
	if !reflect.DeepEqual(args, []any{"pending", "approved", "user_1", "user_1"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestRenderNullSemantics(t *testing.T) {
	expr, args, err := render(store.Eq("readAt", nil))
	if err != nil || len(args) != 0 {
		t.Fatalf("args=%v err=%v", args, err)
	}
	if expr != "data->>'readAt' IS NULL" {
		t.Fatalf("expr = %q", expr)
	}

	expr, _, err = render(store.NinStrings("species", []string{"dog"}))
	if err != nil {
		t.Fatal(err)
	}
	want := "(data->>'species' NOT IN (?) OR data->>'species' IS NULL)"
	if expr != want {
		t.Fatalf("expr = %q", expr)
	}
}

func TestRenderTimeArg(t *testing.T) {
	born := time.Date(2021, 3, 14, 9, 26, 53, 0, time.FixedZone("PDT", -7*3600))
	_, args, err := render(store.Gte("birthDate", born))
	if err != nil {
		t.Fatal(err)
	}
	if args[0] != "2021-03-14T16:26:53Z" {
		t.Fatalf("arg = %v", args[0])
	}
}

func TestRenderContainsEscapesLike(t *testing.T) {
	expr, args, err := render(store.Contains("name", "100%_pure"))
	if err != nil {
		t.Fatal(err)
	}
	if expr != "data->>'name' ILIKE ?" {
		t.Fatalf("expr = %q", expr)
	}
	if args[0] != `%100\%\_pure%` {
		t.Fatalf("arg = %v", args[0])
	}
}

func TestRenderRejectsHostileField(t *testing.T) {
	if _, _, err := render(store.Eq("name'; DROP TABLE", "x")); err == nil {
		t.Fatal("expected field validation error")
	}
}

func TestOrderExprDefault(t *testing.T) {
	expr, err := orderExpr(store.Sort{})
	if err != nil || expr != "doc_id ASC" {
		t.Fatalf("expr=%q err=%v", expr, err)
	}
	expr, err = orderExpr(store.Sort{Field: "createdAt", Descending: true})
	if err != nil || expr != "data->>'createdAt' DESC" {
		t.Fatalf("expr=%q err=%v", expr, err)
	}
}
