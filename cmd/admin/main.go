// Command admin is a thin operator CLI for a running tradepost server. Every
// subcommand hits the server's /admin/v1 HTTP surface.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: admin <command> [flags]

commands:
  shops     list shops
  reload    reload shop definitions from disk
  balance   query or mutate a player balance
  pay       transfer between two players`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "shops":
		shopsCmd(os.Args[2:])
	case "reload":
		reloadCmd(os.Args[2:])
	case "balance":
		balanceCmd(os.Args[2:])
	case "pay":
		payCmd(os.Args[2:])
	default:
		usage()
	}
}

func shopsCmd(args []string) {
	fs := flag.NewFlagSet("shops", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	_ = fs.Parse(args)
	doGet(*baseURL, "/admin/v1/shops", nil)
}

func reloadCmd(args []string) {
	fs := flag.NewFlagSet("reload", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	_ = fs.Parse(args)
	doPost(*baseURL, "/admin/v1/reload", nil)
}

func balanceCmd(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	player := fs.String("player", "", "player uuid")
	set := fs.Int64("set", -1, "set balance to this amount")
	add := fs.Int64("add", 0, "add this amount")
	remove := fs.Int64("remove", 0, "remove this amount")
	_ = fs.Parse(args)
	if *player == "" {
		fmt.Fprintln(os.Stderr, "-player is required")
		os.Exit(2)
	}
	switch {
	case *set >= 0:
		doPost(*baseURL, "/admin/v1/balance", map[string]any{"player": *player, "amount": *set})
	case *add > 0:
		doPost(*baseURL, "/admin/v1/balance/add", map[string]any{"player": *player, "amount": *add})
	case *remove > 0:
		doPost(*baseURL, "/admin/v1/balance/remove", map[string]any{"player": *player, "amount": *remove})
	default:
		doGet(*baseURL, "/admin/v1/balance", url.Values{"player": {*player}})
	}
}

func payCmd(args []string) {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	from := fs.String("from", "", "sender uuid")
	to := fs.String("to", "", "receiver uuid")
	amount := fs.Int64("amount", 0, "amount to transfer")
	_ = fs.Parse(args)
	if *from == "" || *to == "" || *amount <= 0 {
		fmt.Fprintln(os.Stderr, "-from, -to and a positive -amount are required")
		os.Exit(2)
	}
	doPost(*baseURL, "/admin/v1/pay", map[string]any{"from": *from, "to": *to, "amount": *amount})
}

func doGet(baseURL, path string, q url.Values) {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	cl := &http.Client{Timeout: 5 * time.Second}
	resp, err := cl.Get(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	finish(resp)
}

func doPost(baseURL, path string, body map[string]any) {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/") + path
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(http.MethodPost, u, rd)
	req.Header.Set("Content-Type", "application/json")
	cl := &http.Client{Timeout: 10 * time.Second}
	resp, err := cl.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	finish(resp)
}

func finish(resp *http.Response) {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	fmt.Println(strings.TrimSpace(string(b)))
	if resp.StatusCode/100 != 2 {
		os.Exit(1)
	}
}
