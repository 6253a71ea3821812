package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/razah7-lab/cairo-erc-2981/cmd/flags"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Query and operate a token registry server",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
			flags.CallerFlag,
		},
		Commands: []*cli.Command{
			{
				Name:   "owner",
				Usage:  "Print the registry owner",
				Action: withClient(func(c *Client, _ *cli.Context) error { return c.get("/api/v1/owner") }),
			},
			{
				Name:      "balance",
				Usage:     "Print an account's token balance",
				ArgsUsage: "<account>",
				Action: withClient(func(c *Client, cCtx *cli.Context) error {
					account, err := interfaces.NewAddressFromHex(cCtx.Args().First())
					if err != nil {
						return fmt.Errorf("invalid account: %w", err)
					}
					return c.get("/api/v1/accounts/" + account.String() + "/balance")
				}),
			},
			{
				Name:      "owner-of",
				Usage:     "Print a token's holder",
				ArgsUsage: "<token-id>",
				Action: withClient(func(c *Client, cCtx *cli.Context) error {
					tokenID, err := interfaces.NewTokenIDFromHex(cCtx.Args().First())
					if err != nil {
						return fmt.Errorf("invalid token id: %w", err)
					}
					return c.get("/api/v1/tokens/" + tokenID.String() + "/owner")
				}),
			},
			{
				Name:      "mint",
				Usage:     "Mint a token (owner only)",
				ArgsUsage: "<token-id> <to>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "safe", Usage: "run the receiver-acceptance check"},
				},
				Action: withClient(func(c *Client, cCtx *cli.Context) error {
					tokenID, err := interfaces.NewTokenIDFromHex(cCtx.Args().Get(0))
					if err != nil {
						return fmt.Errorf("invalid token id: %w", err)
					}
					to, err := interfaces.NewAddressFromHex(cCtx.Args().Get(1))
					if err != nil {
						return fmt.Errorf("invalid receiver: %w", err)
					}
					return c.post("/api/v1/tokens/"+tokenID.String()+"/mint", map[string]any{
						"caller": c.Caller,
						"to":     to.String(),
						"safe":   cCtx.Bool("safe"),
					})
				}),
			},
			{
				Name:      "transfer",
				Usage:     "Transfer a token",
				ArgsUsage: "<token-id> <from> <to>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "safe", Usage: "run the receiver-acceptance check"},
				},
				Action: withClient(func(c *Client, cCtx *cli.Context) error {
					tokenID, err := interfaces.NewTokenIDFromHex(cCtx.Args().Get(0))
					if err != nil {
						return fmt.Errorf("invalid token id: %w", err)
					}
					from, err := interfaces.NewAddressFromHex(cCtx.Args().Get(1))
					if err != nil {
						return fmt.Errorf("invalid sender: %w", err)
					}
					to, err := interfaces.NewAddressFromHex(cCtx.Args().Get(2))
					if err != nil {
						return fmt.Errorf("invalid receiver: %w", err)
					}
					return c.post("/api/v1/tokens/"+tokenID.String()+"/transfer", map[string]any{
						"caller": c.Caller,
						"from":   from.String(),
						"to":     to.String(),
						"safe":   cCtx.Bool("safe"),
					})
				}),
			},
			{
				Name:      "royalty",
				Usage:     "Resolve the royalty for a sale",
				ArgsUsage: "<token-id> <sale-price>",
				Action: withClient(func(c *Client, cCtx *cli.Context) error {
					tokenID, err := interfaces.NewTokenIDFromHex(cCtx.Args().Get(0))
					if err != nil {
						return fmt.Errorf("invalid token id: %w", err)
					}
					return c.get("/api/v1/tokens/" + tokenID.String() + "/royalty?sale_price=" + cCtx.Args().Get(1))
				}),
			},
			{
				Name:  "snapshot",
				Usage: "Persist the registry state and print the snapshot content id",
				Action: withClient(func(c *Client, _ *cli.Context) error {
					return c.post("/api/v1/admin/snapshot", nil)
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// Client is a thin JSON client over the registry server API.
type Client struct {
	ServerAddr string
	Caller     string
}

func withClient(fn func(*Client, *cli.Context) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		c := &Client{
			ServerAddr: cCtx.String(flags.ServerAddrFlag.Name),
		}
		if raw := cCtx.String(flags.CallerFlag.Name); raw != "" {
			caller, err := interfaces.NewAddressFromHex(raw)
			if err != nil {
				return fmt.Errorf("invalid caller address: %w", err)
			}
			c.Caller = caller.String()
		}
		return fn(c, cCtx)
	}
}

func (c *Client) get(path string) error {
	resp, err := http.Get(c.ServerAddr + path)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func (c *Client) post(path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	resp, err := http.Post(c.ServerAddr+path, "application/json", reader)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Println(string(bytes.TrimSpace(body)))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}
