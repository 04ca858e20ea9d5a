package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "coins").
		From("teams").
		Where(Eq("user_id", "user-1"), Eq("active", true)).
		OrderBy("created_at", "id").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, coins FROM teams WHERE user_id = $1 AND active = $2 ORDER BY created_at, id LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "user-1" || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInIsAlwaysFalse(t *testing.T) {
	query, args, err := Select("*").
		From("user_cards").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM user_cards WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("user_cards").
		Columns("id", "team_id").
		Values("uc-1", "team-1").
		Values("uc-2", "team-1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO user_cards (id, team_id) VALUES ($1, $2), ($3, $4) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "uc-2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_GuardedBalanceAdjust(t *testing.T) {
	query, args, err := Update("teams").
		SetExpr("coins", "coins + ?", int64(-100)).
		Where(
			Eq("id", "team-1"),
			Expr("coins + ? >= 0", int64(-100)),
		).
		Suffix("RETURNING coins").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET coins = coins + $1 WHERE id = $2 AND coins + $3 >= 0 RETURNING coins"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(-100) || args[1] != "team-1" || args[2] != int64(-100) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ComparisonConditions(t *testing.T) {
	query, args, err := Update("user_tokens").
		SetExpr("uses_remaining", "uses_remaining - 1").
		Where(
			Eq("id", "ut-1"),
			Gt("uses_remaining", 0),
			Ne("status", "consumed"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE user_tokens SET uses_remaining = uses_remaining - 1 WHERE id = $1 AND uses_remaining > $2 AND status <> $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
