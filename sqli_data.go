package libinjection

import "strings"

/*
 * sql_keywords maps uppercase SQL words, compound phrases and multi-char
 * operators to their token type. The fingerprint blacklist is merged into
 * the same table under TYPE_FINGERPRINT, so a single lookup serves both
 * the tokenizer and the matcher.
 *
 * The table is a curated core of the classic libinjection word list:
 * every entry either changes how a statement tokenizes or anchors a
 * known-injection fingerprint family. It is not an exhaustive SQL
 * vocabulary; unknown words fall through as barewords, which is the safe
 * default for fingerprinting.
 */
var sql_keywords = map[string]byte{
	/* statement starters */
	"ALTER":    TYPE_EXPRESSION,
	"CALL":     TYPE_EXPRESSION,
	"CREATE":   TYPE_EXPRESSION,
	"DELETE":   TYPE_EXPRESSION,
	"DROP":     TYPE_EXPRESSION,
	"GRANT":    TYPE_EXPRESSION,
	"INSERT":   TYPE_EXPRESSION,
	"LOAD":     TYPE_EXPRESSION,
	"MERGE":    TYPE_EXPRESSION,
	"RENAME":   TYPE_EXPRESSION,
	"REPLACE":  TYPE_EXPRESSION,
	"REVOKE":   TYPE_EXPRESSION,
	"SELECT":   TYPE_EXPRESSION,
	"SET":      TYPE_EXPRESSION,
	"TRUNCATE": TYPE_EXPRESSION,
	"UPDATE":   TYPE_EXPRESSION,

	/* union */
	"UNION":          TYPE_UNION,
	"UNION ALL":      TYPE_UNION,
	"UNION DISTINCT": TYPE_UNION,

	/* clause groupers */
	"GROUP BY": TYPE_GROUP,
	"ORDER BY": TYPE_GROUP,
	"LIMIT":    TYPE_GROUP,
	"OFFSET":   TYPE_GROUP,

	/* keywords */
	"AS":            TYPE_KEYWORD,
	"CASE":          TYPE_KEYWORD,
	"DISTINCT":      TYPE_KEYWORD,
	"ELSE":          TYPE_KEYWORD,
	"END":           TYPE_KEYWORD,
	"FROM":          TYPE_KEYWORD,
	"HAVING":        TYPE_KEYWORD,
	"IN":            TYPE_KEYWORD,
	"INTO":          TYPE_KEYWORD,
	"INTO DUMPFILE": TYPE_KEYWORD,
	"INTO OUTFILE":  TYPE_KEYWORD,
	"JOIN":          TYPE_KEYWORD,
	"NOT IN":        TYPE_KEYWORD,
	"THEN":          TYPE_KEYWORD,
	"VALUES":        TYPE_KEYWORD,
	"WHEN":          TYPE_KEYWORD,
	"WHERE":         TYPE_KEYWORD,

	/* logic operators */
	"AND": TYPE_LOGIC_OPERATOR,
	"OR":  TYPE_LOGIC_OPERATOR,
	"XOR": TYPE_LOGIC_OPERATOR,
	"&&":  TYPE_LOGIC_OPERATOR,
	"||":  TYPE_LOGIC_OPERATOR,

	/* word operators */
	"BETWEEN":     TYPE_OPERATOR,
	"DIV":         TYPE_OPERATOR,
	"IS":          TYPE_OPERATOR,
	"IS NOT":      TYPE_OPERATOR,
	"LIKE":        TYPE_OPERATOR,
	"MOD":         TYPE_OPERATOR,
	"NOT":         TYPE_OPERATOR,
	"NOT BETWEEN": TYPE_OPERATOR,
	"NOT LIKE":    TYPE_OPERATOR,
	"REGEXP":      TYPE_OPERATOR,
	"RLIKE":       TYPE_OPERATOR,
	"SOUNDS LIKE": TYPE_OPERATOR,

	/* symbol operators longer than one char */
	"!!":  TYPE_OPERATOR,
	"!<":  TYPE_OPERATOR,
	"!=":  TYPE_OPERATOR,
	"!>":  TYPE_OPERATOR,
	"%=":  TYPE_OPERATOR,
	"&=":  TYPE_OPERATOR,
	"*=":  TYPE_OPERATOR,
	"+=":  TYPE_OPERATOR,
	"-=":  TYPE_OPERATOR,
	"/=":  TYPE_OPERATOR,
	"::":  TYPE_OPERATOR,
	":=":  TYPE_OPERATOR,
	"<<":  TYPE_OPERATOR,
	"<=":  TYPE_OPERATOR,
	"<=>": TYPE_OPERATOR,
	"<>":  TYPE_OPERATOR,
	">=":  TYPE_OPERATOR,
	">>":  TYPE_OPERATOR,
	"^=":  TYPE_OPERATOR,
	"|=":  TYPE_OPERATOR,

	/* sql types: fold away when they prefix a value */
	"BIGINT":    TYPE_SQLTYPE,
	"BINARY":    TYPE_SQLTYPE,
	"BOOLEAN":   TYPE_SQLTYPE,
	"DECIMAL":   TYPE_SQLTYPE,
	"DOUBLE":    TYPE_SQLTYPE,
	"FLOAT":     TYPE_SQLTYPE,
	"INT":       TYPE_SQLTYPE,
	"INTEGER":   TYPE_SQLTYPE,
	"NUMERIC":   TYPE_SQLTYPE,
	"REAL":      TYPE_SQLTYPE,
	"SIGNED":    TYPE_SQLTYPE,
	"SMALLINT":  TYPE_SQLTYPE,
	"TINYINT":   TYPE_SQLTYPE,
	"UNSIGNED":  TYPE_SQLTYPE,
	"VARBINARY": TYPE_SQLTYPE,
	"VARCHAR":   TYPE_SQLTYPE,

	/* functions seen in injections */
	"ABS":             TYPE_FUNCTION,
	"ASCII":           TYPE_FUNCTION,
	"AVG":             TYPE_FUNCTION,
	"BENCHMARK":       TYPE_FUNCTION,
	"CAST":            TYPE_FUNCTION,
	"CHAR":            TYPE_FUNCTION,
	"CHR":             TYPE_FUNCTION,
	"COALESCE":        TYPE_FUNCTION,
	"CONCAT":          TYPE_FUNCTION,
	"CONCAT_WS":       TYPE_FUNCTION,
	"CONV":            TYPE_FUNCTION,
	"CONVERT":         TYPE_FUNCTION,
	"COUNT":           TYPE_FUNCTION,
	"DBMS_PIPE":       TYPE_FUNCTION,
	"EXTRACTVALUE":    TYPE_FUNCTION,
	"GREATEST":        TYPE_FUNCTION,
	"GROUP_CONCAT":    TYPE_FUNCTION,
	"HEX":             TYPE_FUNCTION,
	"IF":              TYPE_FUNCTION,
	"IFNULL":          TYPE_FUNCTION,
	"INSTR":           TYPE_FUNCTION,
	"LEAST":           TYPE_FUNCTION,
	"LENGTH":          TYPE_FUNCTION,
	"LOAD_FILE":       TYPE_FUNCTION,
	"LOWER":           TYPE_FUNCTION,
	"LTRIM":           TYPE_FUNCTION,
	"MAX":             TYPE_FUNCTION,
	"MD5":             TYPE_FUNCTION,
	"MID":             TYPE_FUNCTION,
	"MIN":             TYPE_FUNCTION,
	"NOW":             TYPE_FUNCTION,
	"NULLIF":          TYPE_FUNCTION,
	"PG_SLEEP":        TYPE_FUNCTION,
	"POSITION":        TYPE_FUNCTION,
	"RAND":            TYPE_FUNCTION,
	"RECEIVE_MESSAGE": TYPE_FUNCTION,
	"ROUND":           TYPE_FUNCTION,
	"RTRIM":           TYPE_FUNCTION,
	"SHA1":            TYPE_FUNCTION,
	"SLEEP":           TYPE_FUNCTION,
	"SOUNDEX":         TYPE_FUNCTION,
	"SPACE":           TYPE_FUNCTION,
	"STRCMP":          TYPE_FUNCTION,
	"SUBSTR":          TYPE_FUNCTION,
	"SUBSTRING":       TYPE_FUNCTION,
	"SUM":             TYPE_FUNCTION,
	"SYSDATE":         TYPE_FUNCTION,
	"TRIM":            TYPE_FUNCTION,
	"UNHEX":           TYPE_FUNCTION,
	"UPDATEXML":       TYPE_FUNCTION,
	"UPPER":           TYPE_FUNCTION,
	"USER":            TYPE_FUNCTION,
	"UTL_HTTP":        TYPE_FUNCTION,
	"UTL_INADDR":      TYPE_FUNCTION,
	"VERSION":         TYPE_FUNCTION,
	"XMLTYPE":         TYPE_FUNCTION,

	/* fake variables: functions callable without parens */
	"CURRENT_DATE":      TYPE_VARIABLE,
	"CURRENT_TIME":      TYPE_VARIABLE,
	"CURRENT_TIMESTAMP": TYPE_VARIABLE,
	"CURRENT_USER":      TYPE_VARIABLE,
	"LOCALTIME":         TYPE_VARIABLE,
	"LOCALTIMESTAMP":    TYPE_VARIABLE,
	"SESSION_USER":      TYPE_VARIABLE,
	"SYSTEM_USER":       TYPE_VARIABLE,

	/* literals */
	"FALSE": TYPE_NUMBER,
	"NULL":  TYPE_NUMBER,
	"TRUE":  TYPE_NUMBER,

	/* collation */
	"COLLATE": TYPE_COLLATE,

	/* TSQL statement starters */
	"DECLARE":       TYPE_TSQL,
	"EXEC":          TYPE_TSQL,
	"EXECUTE":       TYPE_TSQL,
	"SHUTDOWN":      TYPE_TSQL,
	"SP_EXECUTESQL": TYPE_TSQL,
	"WAITFOR":       TYPE_TSQL,
	"WAITFOR DELAY": TYPE_TSQL,
	"WAITFOR TIME":  TYPE_TSQL,
	"XP_CMDSHELL":   TYPE_TSQL,
}

/*
 * sqli_fingerprints is the folded-token blacklist. Each entry is a
 * sequence of token type codes (at most SQLI_MAX_TOKENS) that a known
 * injection folds down to. Entries are written in canonical mixed case
 * and stored uppercase; lookups uppercase the computed fingerprint, so
 * "s&sos" and "S&SOS" are the same entry.
 *
 * The list is organized by attack family. Additions here must clear the
 * not_whitelist pass: a fingerprint that common benign input also folds
 * to belongs in neither list.
 */
var sqli_fingerprints = []string{
	/* unparsable constructs: banned outright */
	"X",

	/* tautology with logic operator: 1=1, 'a'='a' and friends */
	"1&1", "1&1c", "1&1o", "1&1ok", "1&1os",
	"1&(", "1&(1", "1&(1)", "1&(1o", "1&(s",
	"1&f(", "1&n", "1&nc", "1&no", "1&nos",
	"1&s", "1&sc", "1&so", "1&sos", "1&v",
	"n&1", "n&1c", "n&1o", "n&(", "n&(1",
	"n&f(", "n&n", "n&nc", "n&no", "n&nos",
	"n&s", "n&sc", "n&so", "n&sos", "n&v",
	"s&1", "s&1c", "s&1o", "s&(", "s&(1",
	"s&f(", "s&n", "s&nc", "s&no", "s&nos",
	"s&s", "s&sc", "s&so", "s&sos", "s&v",
	"v&1", "v&1c", "v&n", "v&s", "v&v",

	/* string concatenation breakouts */
	"sos", "sosc", "soso", "so1", "so1c", "sono", "sonc",

	/* union-based injection */
	"1U", "nU", "sU", "vU",
	"1UE", "1UE(", "1UE1", "1UEf", "1UEk", "1UEkn",
	"1UEn", "1UEnk", "1UEo", "1UEok", "1UEs", "1UEv",
	"nUE", "nUE(", "nUEk", "nUEn", "nUEok", "nUEo",
	"sUE", "sUE(", "sUEk", "sUEn", "sUEok", "sUEo",
	"UE", "UE(", "UEf", "UEk", "UEn", "UEo", "UEok", "UEs",

	/* stacked queries */
	";E", ";E(", ";Ef", ";Ek", ";En", ";Enk", ";Es",
	";T", ";T1", ";Tf", ";Tf(", ";Tn", ";Ts",
	"1;E", "1;E(", "1;Ef", "1;Ek", "1;En", "1;Enk",
	"1;T", "1;T1", "1;Tf", "1;Tf(", "1;Tn", "1;Ts",
	"n;E", "n;E(", "n;Ef", "n;Ek", "n;En", "n;Enk",
	"n;T", "n;Tf", "n;Tf(", "n;Tn",
	"s;E", "s;E(", "s;Ef", "s;Ek", "s;En", "s;Enk",
	"s;T", "s;Tf", "s;Tf(", "s;Tn",
	"v;E", "v;Ek", "v;En", "v;T", "v;Tn",

	/* TSQL without separator */
	"T(", "T1", "Tf", "Tf(", "Tn", "Ts",

	/* comment truncation */
	"1c", "nc", "sc", "vc", "1oc", "noc", "soc",
	"1ovc", "novc", "sovc",

	/* paren-breakout tautologies: ") OR (" shapes */
	")&(", ")&(1", ")&(1)", ")&(n", ")&(s",
	")o(", ")o(1", ")o(n", ")o(s",
	"1)&(", "1)&(1", "1)o(", "1)o(1",
	"n)&(", "n)&(n", "n)o(", "n)o(n",
	"s)&(", "s)&(s", "s)o(", "s)o(s",

	/* function-call probes inside expressions */
	"Ef(", "Ef(1", "Ef(1)", "Ef(n", "Ef(s", "Ef(f(",
	"f(f(", "f(f(1", "f(f(s",
	"of(1", "of(n", "of(s",
	"&f(", "&f(1", "&f(n", "&f(s",
}

func init() {
	for _, fp := range sqli_fingerprints {
		sql_keywords[strings.ToUpper(fp)] = TYPE_FINGERPRINT
	}
}
