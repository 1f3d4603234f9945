// Package devicereport collects a host's device attributes and IP-derived
// geolocation and posts them as one embed message to a webhook.
//
// # Basic Usage
//
//	cfg := devicereport.DefaultConfig()
//	cfg.WebhookURL = "https://discord.com/api/webhooks/..."
//
//	r, err := devicereport.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	outcome := r.Run(context.Background())
//	fmt.Println(outcome.Delivered())
//
// Run never returns an error. Lookup failures are replaced by defaults
// ("unknown" IP, empty geo record, no hints) and a delivery failure is
// logged once and recorded in the returned [Outcome]. Nothing is retried.
//
// # Repeat Mode
//
// [Watch] runs a report immediately, then on every interval tick and every
// write to a watched config file, spaced by a minimum gap.
//
// # Dependency Injection
//
//	r, err := devicereport.New(cfg,
//	    devicereport.WithHTTPClient(mockClient),
//	    devicereport.WithLogger(customLogger),
//	    devicereport.WithDeviceSource(fakeSource),
//	)
package devicereport
