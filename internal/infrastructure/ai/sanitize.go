package ai

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// StripCodeFences removes a markdown code fence or inline backticks around a
// command. Text without fences is returned trimmed.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "```"); start != -1 {
		suffix := content[start+3:]
		if end := strings.Index(suffix, "```"); end != -1 {
			block := suffix[:end]
			lines := strings.Split(block, "\n")
			if len(lines) > 1 && isFenceLanguage(lines[0]) {
				lines = lines[1:]
			}
			return strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}
	if len(content) > 1 && strings.HasPrefix(content, "`") && strings.HasSuffix(content, "`") &&
		strings.Count(content, "`") == 2 {
		return strings.TrimSpace(content[1 : len(content)-1])
	}
	return content
}

func isFenceLanguage(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || !strings.ContainsAny(line, " \t|&;<>$'\"")
}

// shellBuiltins are command names that never appear on PATH.
var shellBuiltins = map[string]bool{
	"alias": true, "bg": true, "cd": true, "command": true, "eval": true,
	"exec": true, "exit": true, "export": true, "fg": true, "jobs": true,
	"read": true, "set": true, "source": true, "type": true, "ulimit": true,
	"umask": true, "unalias": true, "unset": true, "wait": true, ".": true,
	"echo": true, "printf": true, "test": true, "[": true, "pwd": true,
	"true": true, "false": true, "trap": true, "shift": true, "history": true,
}

// IsBareCommand reports whether text is already a directly executable
// single-line command: it parses as shell, carries no comments and its first
// word names a builtin, a path or a program found by lookPath.
func IsBareCommand(text string, lookPath func(string) (string, error)) bool {
	if text == "" || text != strings.TrimSpace(text) || strings.ContainsAny(text, "\n\r") || strings.Contains(text, "```") {
		return false
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash), syntax.KeepComments(true))
	file, err := parser.Parse(strings.NewReader(text), "")
	if err != nil || len(file.Stmts) == 0 || len(file.Last) > 0 {
		return false
	}

	hasComment := false
	firstWord := ""
	seenCall := false
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Comment:
			hasComment = true
		case *syntax.CallExpr:
			if !seenCall && len(n.Args) > 0 {
				seenCall = true
				firstWord = n.Args[0].Lit()
			}
		}
		return !hasComment
	})
	if hasComment {
		return false
	}
	if !seenCall || firstWord == "" {
		// compound statements or a leading expansion; the parse is the check
		return true
	}
	if shellBuiltins[firstWord] || strings.Contains(firstWord, "/") {
		return true
	}
	_, err = lookPath(firstWord)
	return err == nil
}
