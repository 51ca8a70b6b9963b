package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xsplit/pkg/experiment/xab"
	"github.com/omeyang/xsplit/pkg/experiment/xbucket"
	"github.com/omeyang/xsplit/pkg/experiment/xsettings"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

const (
	defaultUsers  = 10000
	defaultPrefix = "user-"
	excludedLabel = "(excluded)"
)

func createCommands() []*cli.Command {
	return []*cli.Command{
		createValidateCommand(),
		createVariationCommand(),
		createSimulateCommand(),
	}
}

func settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "配置文件路径（.json/.yaml/.yml）"},
		&cli.StringFlag{Name: "campaign", Aliases: []string{"c"}, Usage: "实验 key"},
	}
}

func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "校验配置文件",
		ArgsUsage: "<file>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usagef("validate 需要且只需要一个文件参数")
			}
			return cmdValidate(cmd.Root().Writer, cmd.Args().First())
		},
	}
}

func createVariationCommand() *cli.Command {
	return &cli.Command{
		Name:  "variation",
		Usage: "计算单个用户的分流结果",
		Flags: append(settingsFlags(),
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "用户 ID"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, campaign, user := cmd.String("settings"), cmd.String("campaign"), cmd.String("user")
			if settings == "" || campaign == "" || user == "" {
				return usagef("variation 需要 --settings、--campaign 与 --user")
			}
			return cmdVariation(ctx, cmd.Root().Writer, settings, campaign, user)
		},
	}
}

func createSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "模拟一批用户并打印各变体占比",
		Flags: append(settingsFlags(),
			&cli.IntFlag{Name: "users", Aliases: []string{"n"}, Usage: "模拟用户数", Value: defaultUsers},
			&cli.StringFlag{Name: "prefix", Usage: "用户 ID 前缀", Value: defaultPrefix},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "并发数", Value: runtime.NumCPU()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, campaign := cmd.String("settings"), cmd.String("campaign")
			if settings == "" || campaign == "" {
				return usagef("simulate 需要 --settings 与 --campaign")
			}
			users, workers := cmd.Int("users"), cmd.Int("workers")
			if users <= 0 {
				return usagef("--users 必须为正数")
			}
			return cmdSimulate(ctx, cmd.Root().Writer, simulation{
				settings: settings,
				campaign: campaign,
				users:    users,
				prefix:   cmd.String("prefix"),
				workers:  max(workers, 1),
			})
		},
	}
}

func cmdValidate(w io.Writer, path string) error {
	snap, err := xsettings.LoadSnapshot(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "ok: %d campaigns (version %d)\n", snap.Len(), snap.Version())
	for _, c := range snap.Campaigns() {
		fmt.Fprintf(w, "  %s  status=%s  traffic=%s%%  threshold=%d\n",
			c.Key(), c.Status(), strconv.FormatFloat(c.Traffic(), 'f', -1, 64), c.Threshold())
		for _, v := range c.Variations() {
			fmt.Fprintf(w, "    %s  %s%%\n", v.Name, strconv.FormatFloat(v.Weight, 'f', -1, 64))
		}
	}
	return nil
}

// openClient 加载配置创建不投递事件的 Client
func openClient(path, campaign string) (*xab.Client, *xsettings.CompiledCampaign, error) {
	snap, err := xsettings.LoadSnapshot(path)
	if err != nil {
		return nil, nil, err
	}
	cc, ok := snap.Campaign(campaign)
	if !ok {
		return nil, nil, fmt.Errorf("campaign %q not found in %s", campaign, path)
	}
	return xab.New(snap, xab.WithLogger(xlog.Discard())), cc, nil
}

func cmdVariation(ctx context.Context, w io.Writer, path, campaign, user string) error {
	client, _, err := openClient(path, campaign)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	variation := client.GetVariation(ctx, campaign, user)
	if variation == "" {
		variation = excludedLabel
	}
	fmt.Fprintf(w, "campaign=%s user=%s inclusion_bucket=%d variation_bucket=%d\n",
		campaign, user, xbucket.InclusionBucket(campaign, user), xbucket.VariationBucket(campaign, user))
	fmt.Fprintln(w, variation)
	return nil
}

type simulation struct {
	settings string
	campaign string
	users    int
	prefix   string
	workers  int
}

func cmdSimulate(ctx context.Context, w io.Writer, sim simulation) error {
	client, cc, err := openClient(sim.settings, sim.campaign)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	var (
		mu     sync.Mutex
		counts = make(map[string]int)
	)
	g, gctx := errgroup.WithContext(ctx)
	chunk := (sim.users + sim.workers - 1) / sim.workers
	for lo := 0; lo < sim.users; lo += chunk {
		hi := min(lo+chunk, sim.users)
		g.Go(func() error {
			local := make(map[string]int)
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				local[client.GetVariation(gctx, sim.campaign, sim.prefix+strconv.Itoa(i))]++
			}
			mu.Lock()
			for k, n := range local {
				counts[k] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(w, "campaign=%s users=%d\n", sim.campaign, sim.users)
	for _, v := range cc.Variations() {
		printShare(w, v.Name, counts[v.Name], sim.users)
	}
	printShare(w, excludedLabel, counts[""], sim.users)
	return nil
}

func printShare(w io.Writer, label string, n, total int) {
	fmt.Fprintf(w, "  %-12s %8d  %6.2f%%\n", label, n, 100*float64(n)/float64(total))
}
